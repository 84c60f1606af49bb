package cmd

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"gather/pkg/scatter"
	"gather/utils"
)

var read = cli.Command{
	Name:      "read",
	Usage:     "read a single typed value from target memory",
	ArgsUsage: "<pid> <addr> <kind> [size]",
	Action: func(context *cli.Context) error {
		if err := utils.CheckArgs(context, 3, utils.MinArgs, readArgsCheck); err != nil {
			return err
		}

		pid, err := strconv.Atoi(context.Args().First())
		if err != nil {
			return err
		}

		return exec(Read, pid, context)
	},
}

func readArgsCheck(args cli.Args) error {
	if !utils.CheckPid(args.First()) {
		return fmt.Errorf("pid %s does not exist", args.First())
	}

	if _, err := utils.ParseAddr(args.Get(1)); err != nil {
		return fmt.Errorf("invalid address %q", args.Get(1))
	}

	kind, ok := scatter.KindFromString(args.Get(2))
	if !ok {
		return fmt.Errorf("unknown kind %q", args.Get(2))
	}

	if kind.Width() == 0 && args.Get(3) == "" {
		return fmt.Errorf("kind %s requires an explicit size", kind)
	}

	return nil
}

func (e *executor) read() error {
	args := e.ctx.Args()
	addr, _ := utils.ParseAddr(args.Get(1))
	kind, _ := scatter.KindFromString(args.Get(2))

	var size uint32
	if kind.Width() == 0 {
		s, err := strconv.ParseUint(args.Get(3), 0, 32)
		if err != nil {
			return err
		}
		size = uint32(s)
	}

	switch kind {
	case scatter.KindPointer:
		v, err := scatter.ReadPtr(e.vm, e.pid, addr)
		if err != nil {
			return err
		}
		fmt.Printf("%#x\n", v)
	case scatter.KindBuffer:
		buf, err := scatter.ReadBuffer(e.vm, e.pid, addr, size)
		if err != nil {
			return err
		}
		utils.PrintHexDump(buf)
	case scatter.KindString:
		s, err := scatter.ReadString(e.vm, e.pid, addr, size)
		if err != nil {
			return err
		}
		fmt.Printf("%q\n", s)
	case scatter.KindInt32:
		return readAndPrint[int32](e, addr)
	case scatter.KindUint32:
		return readAndPrint[uint32](e, addr)
	case scatter.KindInt64:
		return readAndPrint[int64](e, addr)
	case scatter.KindUint64:
		return readAndPrint[uint64](e, addr)
	case scatter.KindFloat32:
		return readAndPrint[float32](e, addr)
	case scatter.KindFloat64:
		return readAndPrint[float64](e, addr)
	case scatter.KindVec2:
		return readAndPrint[scatter.Vec2](e, addr)
	case scatter.KindVec3:
		return readAndPrint[scatter.Vec3](e, addr)
	case scatter.KindBool:
		return readAndPrint[bool](e, addr)
	}

	return nil
}

func readAndPrint[T any](e *executor, addr uint64) error {
	v, err := scatter.ReadValue[T](e.vm, e.pid, addr)
	if err != nil {
		return err
	}
	fmt.Printf("%v\n", v)
	return nil
}
