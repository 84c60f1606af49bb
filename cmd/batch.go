package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"gather/pkg/scatter"
	"gather/utils"
)

var batch = cli.Command{
	Name:      "batch",
	Usage:     "read many typed values with a single page fetch",
	ArgsUsage: "<pid> <addr:kind[:size]> ...",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "nocache, n",
			Usage: "bypass the page cache for this round",
		},
	},
	Action: func(context *cli.Context) error {
		if err := utils.CheckArgs(context, 2, utils.MinArgs, batchArgsCheck); err != nil {
			return err
		}

		pid, err := strconv.Atoi(context.Args().First())
		if err != nil {
			return err
		}

		return exec(Batch, pid, context)
	},
}

type batchSpec struct {
	addr uint64
	kind scatter.Kind
	size uint32
}

func batchArgsCheck(args cli.Args) error {
	if !utils.CheckPid(args.First()) {
		return fmt.Errorf("pid %s does not exist", args.First())
	}

	for _, arg := range args.Tail() {
		if _, err := parseBatchSpec(arg); err != nil {
			return err
		}
	}

	return nil
}

func parseBatchSpec(s string) (batchSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return batchSpec{}, fmt.Errorf("malformed spec %q, want addr:kind[:size]", s)
	}

	addr, err := utils.ParseAddr(parts[0])
	if err != nil {
		return batchSpec{}, fmt.Errorf("spec %q: %w", s, err)
	}

	kind, ok := scatter.KindFromString(parts[1])
	if !ok {
		return batchSpec{}, fmt.Errorf("spec %q: unknown kind %q", s, parts[1])
	}

	spec := batchSpec{addr: addr, kind: kind}
	if len(parts) == 3 {
		size, err := strconv.ParseUint(parts[2], 0, 32)
		if err != nil {
			return batchSpec{}, fmt.Errorf("spec %q: %w", s, err)
		}
		spec.size = uint32(size)
	} else if kind.Width() == 0 {
		return batchSpec{}, fmt.Errorf("spec %q: kind %s requires a size", s, kind)
	}

	return spec, nil
}

func (e *executor) batch() error {
	args := e.ctx.Args().Tail()

	specs := make([]batchSpec, 0, len(args))
	for _, arg := range args {
		spec, _ := parseBatchSpec(arg)
		specs = append(specs, spec)
	}

	plan, err := scatter.NewPlan(len(specs), e.vm)
	if err != nil {
		return err
	}

	round := plan.AddRound(e.pid, !e.ctx.Bool("nocache"))
	for i, spec := range specs {
		size := scatter.NoSize
		if spec.kind.Width() == 0 {
			size = scatter.Fixed(uint64(spec.size))
		}
		if _, err := round.AddEntry(i, 0, scatter.Fixed(spec.addr), spec.kind, size, 0); err != nil {
			return err
		}
	}

	if err := plan.Execute(); err != nil {
		return err
	}

	for i, spec := range specs {
		entry, _ := plan.Entry(i, 0)
		fmt.Printf("%#x %s = %s\n", spec.addr, spec.kind, utils.FormatEntry(entry))
	}
	return nil
}
