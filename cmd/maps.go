package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli"

	"gather/pkg/vmem"
	"gather/utils"
)

var maps = cli.Command{
	Name:      "maps",
	Usage:     "list the target's memory mappings",
	ArgsUsage: "<pid>",
	Action: func(context *cli.Context) error {
		if err := utils.CheckArgs(context, 1, utils.ExactArgs, mapsArgsCheck); err != nil {
			return err
		}

		pid, err := strconv.Atoi(context.Args().First())
		if err != nil {
			return err
		}

		return exec(Maps, pid, context)
	},
}

func mapsArgsCheck(args cli.Args) error {
	if !utils.CheckPid(args.First()) {
		return fmt.Errorf("pid %s does not exist", args.First())
	}

	return nil
}

func (e *executor) maps() error {
	regions, err := vmem.ParseMaps(e.pid)
	if err != nil {
		return err
	}

	w := new(tabwriter.Writer)
	w.Init(os.Stdout, 0, 8, 1, ' ', 0)
	for _, r := range regions {
		fmt.Fprintf(w, "%#x-%#x\t%s\t%#x\t%s\n", r.Start, r.End, r.Perms, r.Offset, r.Path)
	}
	return w.Flush()
}
