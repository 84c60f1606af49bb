package cmd

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"gather/pkg/terminal"
	"gather/utils"
)

var shell = cli.Command{
	Name:      "shell",
	Usage:     "open an interactive session against a process",
	ArgsUsage: "<pid>",
	Action: func(context *cli.Context) error {
		if err := utils.CheckArgs(context, 1, utils.ExactArgs, shellArgsCheck); err != nil {
			return err
		}

		pid, err := strconv.Atoi(context.Args().First())
		if err != nil {
			return err
		}

		return exec(Shell, pid, context)
	},
}

func shellArgsCheck(args cli.Args) error {
	if !utils.CheckPid(args.First()) {
		return fmt.Errorf("pid %s does not exist", args.First())
	}

	return nil
}

func (e *executor) shell() error {
	term := terminal.New(e.pid, e.vm)
	return term.Run()
}
