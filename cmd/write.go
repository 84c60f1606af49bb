package cmd

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"gather/pkg/scatter"
	"gather/utils"
)

var write = cli.Command{
	Name:      "write",
	Usage:     "write a single typed value to target memory",
	ArgsUsage: "<pid> <addr> <kind> <value>",
	Action: func(context *cli.Context) error {
		if err := utils.CheckArgs(context, 4, utils.ExactArgs, writeArgsCheck); err != nil {
			return err
		}

		pid, err := strconv.Atoi(context.Args().First())
		if err != nil {
			return err
		}

		return exec(Write, pid, context)
	},
}

func writeArgsCheck(args cli.Args) error {
	if !utils.CheckPid(args.First()) {
		return fmt.Errorf("pid %s does not exist", args.First())
	}

	if _, err := utils.ParseAddr(args.Get(1)); err != nil {
		return fmt.Errorf("invalid address %q", args.Get(1))
	}

	if _, ok := scatter.KindFromString(args.Get(2)); !ok {
		return fmt.Errorf("unknown kind %q", args.Get(2))
	}

	return nil
}

func (e *executor) write() error {
	args := e.ctx.Args()
	addr, _ := utils.ParseAddr(args.Get(1))
	kind, _ := scatter.KindFromString(args.Get(2))

	data, err := utils.EncodeValue(kind, args.Get(3))
	if err != nil {
		return err
	}

	if err := scatter.WriteBuffer(e.vm, e.pid, addr, data); err != nil {
		return err
	}

	fmt.Printf("wrote %d bytes at %#x\n", len(data), addr)
	return nil
}
