package terminal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/shlex"

	"gather/pkg/scatter"
	"gather/pkg/vmem"
	"gather/utils"
)

var (
	argumentsErr = "invalid number of arguments, expected at least %d, actual %d"
)

type cmdFn func(term *Term, args []string) error

type command struct {
	aliases []string
	minArgs int
	fn      cmdFn
	help    string
}

func (c command) match(cmdstr string) bool {
	for _, v := range c.aliases {
		if v == cmdstr {
			return true
		}
	}
	return false
}

type Commands struct {
	cmds []command
}

func NewCommands() *Commands {
	c := &Commands{}

	c.cmds = []command{
		{
			aliases: []string{"help", "h"},
			fn:      c.help,
			help: `Prints the help message.

	help [command]

Type "help" followed by the name of a command for more information about it.`},
		{
			aliases: []string{"peek", "p"},
			minArgs: 2,
			fn:      peek,
			help:    "peek <addr|label> <kind> [size] reads one typed value through a fresh scatter round.",
		},
		{
			aliases: []string{"poke", "w"},
			minArgs: 3,
			fn:      poke,
			help:    "poke <addr|label> <kind> <value> writes one typed value as a committed batch.",
		},
		{
			aliases: []string{"batch", "b"},
			minArgs: 1,
			fn:      batchCmd,
			help:    "batch <addr:kind[:size]>... reads many values with one page fetch.",
		},
		{
			aliases: []string{"chain", "c"},
			minArgs: 3,
			fn:      chainCmd,
			help:    "chain <addr|label> <off,off,...> <kind> [size] follows a pointer chain across scatter rounds.",
		},
		{
			aliases: []string{"maps", "m"},
			fn:      mapsCmd,
			help:    "maps lists the target's memory mappings.",
		},
		{
			aliases: []string{"label", "n"},
			minArgs: 2,
			fn:      label,
			help:    "label <name> <addr> names an address for this session.",
		},
		{
			aliases: []string{"ls"},
			fn:      listLabels,
			help:    "ls [pattern] lists session labels, fuzzy-matched against pattern.",
		},
		{
			aliases: []string{"exit", "quit", "q"},
			fn:      exit,
			help:    "exit the session",
		},
	}
	return c
}

// Find will look up the command function for the given command input.
// If it cannot find the command it will default to noCmdAvailable().
func (c *Commands) Find(cmdstr string) command {
	for _, v := range c.cmds {
		if v.match(cmdstr) {
			return v
		}
	}

	return command{aliases: []string{"nocmd"}, fn: noCmdAvailable}
}

func (c *Commands) Call(cmdStr string, t *Term) error {
	fields, err := shlex.Split(cmdStr)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	cmd := c.Find(fields[0])
	args := fields[1:]
	if len(args) < cmd.minArgs {
		return fmt.Errorf(argumentsErr, cmd.minArgs, len(args))
	}

	return cmd.fn(t, args)
}

func (c *Commands) help(t *Term, args []string) error {
	if len(args) > 0 {
		cmd := c.Find(args[0])
		fmt.Fprintln(t.stdout, cmd.help)
		return nil
	}

	fmt.Fprintln(t.stdout, "The following commands are available:")
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 0, '-', 0)
	for _, cmd := range c.cmds {
		h := cmd.help
		if idx := strings.Index(h, "\n"); idx >= 0 {
			h = h[:idx]
		}
		if len(cmd.aliases) > 1 {
			fmt.Fprintf(w, "    %s (alias: %s) \t %s\n", cmd.aliases[0], strings.Join(cmd.aliases[1:], " | "), h)
		} else {
			fmt.Fprintf(w, "    %s \t %s\n", cmd.aliases[0], h)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(t.stdout)
	return nil
}

// resolveAddr turns an argument into a target address: a literal, a
// session label, or a module name from the target's mappings.
func (t *Term) resolveAddr(arg string) (uint64, error) {
	if addr, err := utils.ParseAddr(arg); err == nil {
		return addr, nil
	}

	if node, found := t.labels.Find(arg); found {
		if addr, ok := node.Meta().(uint64); ok {
			return addr, nil
		}
	}

	return vmem.ModuleBase(t.pid, arg)
}

func sizeSourceFor(kind scatter.Kind, args []string, at int) (scatter.Source, error) {
	if kind.Width() > 0 {
		return scatter.NoSize, nil
	}
	if at >= len(args) {
		return scatter.NoSize, fmt.Errorf("kind %s requires an explicit size", kind)
	}
	size, err := strconv.ParseUint(args[at], 0, 32)
	if err != nil {
		return scatter.NoSize, err
	}
	return scatter.Fixed(size), nil
}

func peek(t *Term, args []string) error {
	addr, err := t.resolveAddr(args[0])
	if err != nil {
		return err
	}

	kind, ok := scatter.KindFromString(args[1])
	if !ok {
		return fmt.Errorf("unknown kind %q", args[1])
	}

	size, err := sizeSourceFor(kind, args, 2)
	if err != nil {
		return err
	}

	plan, err := scatter.NewPlan(1, t.vm)
	if err != nil {
		return err
	}

	round := plan.AddRound(t.pid, false)
	entry, err := round.AddEntry(0, 0, scatter.Fixed(addr), kind, size, 0)
	if err != nil {
		return err
	}

	if err := plan.Execute(); err != nil {
		return err
	}

	_, err = fmt.Fprintln(t.stdout, utils.FormatEntry(entry))
	return err
}

func poke(t *Term, args []string) error {
	addr, err := t.resolveAddr(args[0])
	if err != nil {
		return err
	}

	kind, ok := scatter.KindFromString(args[1])
	if !ok {
		return fmt.Errorf("unknown kind %q", args[1])
	}

	data, err := utils.EncodeValue(kind, args[2])
	if err != nil {
		return err
	}

	if err := scatter.WriteBuffer(t.vm, t.pid, addr, data); err != nil {
		return err
	}

	_, err = fmt.Fprintf(t.stdout, "wrote %d bytes at %#x\n", len(data), addr)
	return err
}

func batchCmd(t *Term, args []string) error {
	plan, err := scatter.NewPlan(len(args), t.vm)
	if err != nil {
		return err
	}

	type spec struct {
		addr uint64
		kind scatter.Kind
	}
	specs := make([]spec, 0, len(args))

	round := plan.AddRound(t.pid, true)
	for i, arg := range args {
		parts := strings.Split(arg, ":")
		if len(parts) < 2 {
			return fmt.Errorf("malformed spec %q, want addr:kind[:size]", arg)
		}

		addr, err := t.resolveAddr(parts[0])
		if err != nil {
			return err
		}
		kind, ok := scatter.KindFromString(parts[1])
		if !ok {
			return fmt.Errorf("unknown kind %q", parts[1])
		}
		size, err := sizeSourceFor(kind, parts, 2)
		if err != nil {
			return fmt.Errorf("spec %q: %v", arg, err)
		}

		if _, err := round.AddEntry(i, 0, scatter.Fixed(addr), kind, size, 0); err != nil {
			return err
		}
		specs = append(specs, spec{addr: addr, kind: kind})
	}

	if err := plan.Execute(); err != nil {
		return err
	}

	for i, s := range specs {
		entry, _ := plan.Entry(i, 0)
		fmt.Fprintf(t.stdout, "%#x %s = %s\n", s.addr, s.kind, utils.FormatEntry(entry))
	}
	return nil
}

// chainCmd follows a pointer chain with one scatter round per hop, the
// address of each hop taken from the previous round's result.
func chainCmd(t *Term, args []string) error {
	base, err := t.resolveAddr(args[0])
	if err != nil {
		return err
	}

	offsets, err := utils.ParseOffsets(args[1])
	if err != nil {
		return err
	}

	kind, ok := scatter.KindFromString(args[2])
	if !ok {
		return fmt.Errorf("unknown kind %q", args[2])
	}

	size, err := sizeSourceFor(kind, args, 3)
	if err != nil {
		return err
	}

	plan, err := scatter.NewPlan(1, t.vm)
	if err != nil {
		return err
	}

	addr := scatter.Fixed(base)
	for i, off := range offsets {
		round := plan.AddRound(t.pid, true)
		hop, err := round.AddEntry(0, i, addr, scatter.KindPointer, scatter.NoSize, off)
		if err != nil {
			return err
		}
		addr = scatter.ResultOf(hop)
	}

	final, err := plan.AddRound(t.pid, true).AddEntry(0, len(offsets), addr, kind, size, 0)
	if err != nil {
		return err
	}

	if err := plan.Execute(); err != nil {
		return err
	}

	_, err = fmt.Fprintln(t.stdout, utils.FormatEntry(final))
	return err
}

func mapsCmd(t *Term, args []string) error {
	regions, err := vmem.ParseMaps(t.pid)
	if err != nil {
		return err
	}

	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 1, ' ', 0)
	for _, r := range regions {
		fmt.Fprintf(w, "%#x-%#x\t%s\t%#x\t%s\n", r.Start, r.End, r.Perms, r.Offset, r.Path)
	}
	return w.Flush()
}

func label(t *Term, args []string) error {
	addr, err := t.resolveAddr(args[1])
	if err != nil {
		return err
	}

	t.labels.Add(args[0], addr)
	_, err = fmt.Fprintf(t.stdout, "%s = %#x\n", args[0], addr)
	return err
}

func listLabels(t *Term, args []string) error {
	var names []string
	if len(args) > 0 {
		names = t.labels.FuzzySearch(args[0])
	} else {
		names = t.labels.Keys()
	}

	for _, name := range names {
		if node, found := t.labels.Find(name); found {
			if addr, ok := node.Meta().(uint64); ok {
				fmt.Fprintf(t.stdout, "%s\t%#x\n", name, addr)
			}
		}
	}
	return nil
}

type ExitRequestError struct{}

func (ere ExitRequestError) Error() string {
	return ""
}

func exit(t *Term, args []string) error {
	return ExitRequestError{}
}

var errNoCmd = errors.New("command not available")

func noCmdAvailable(t *Term, args []string) error {
	return errNoCmd
}
