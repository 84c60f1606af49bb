package cmd

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"gather/pkg/scatter"
	"gather/pkg/vmem"
	"gather/utils"
)

var chain = cli.Command{
	Name:      "chain",
	Usage:     "follow a pointer chain from a base address or module",
	ArgsUsage: "<pid> <base|module> <off,off,...> [kind] [size]",
	Action: func(context *cli.Context) error {
		if err := utils.CheckArgs(context, 3, utils.MinArgs, chainArgsCheck); err != nil {
			return err
		}

		pid, err := strconv.Atoi(context.Args().First())
		if err != nil {
			return err
		}

		return exec(Chain, pid, context)
	},
}

func chainArgsCheck(args cli.Args) error {
	if !utils.CheckPid(args.First()) {
		return fmt.Errorf("pid %s does not exist", args.First())
	}

	if _, err := utils.ParseOffsets(args.Get(2)); err != nil {
		return err
	}

	if k := args.Get(3); k != "" {
		if _, ok := scatter.KindFromString(k); !ok {
			return fmt.Errorf("unknown kind %q", k)
		}
	}

	return nil
}

func (e *executor) chain() error {
	args := e.ctx.Args()

	base, err := utils.ParseAddr(args.Get(1))
	if err != nil {
		// Not an address; try it as a module name.
		base, err = vmem.ModuleBase(e.pid, args.Get(1))
		if err != nil {
			return err
		}
	}

	offsets, _ := utils.ParseOffsets(args.Get(2))

	addr, err := scatter.ReadPtrChain(e.vm, e.pid, base, offsets)
	if err != nil {
		return err
	}
	fmt.Printf("%#x\n", addr)

	if args.Get(3) == "" {
		return nil
	}

	// Read the value the chain lands on.
	return e.readChained(addr)
}

func (e *executor) readChained(addr uint64) error {
	args := e.ctx.Args()
	kind, _ := scatter.KindFromString(args.Get(3))

	var size uint32
	if kind.Width() == 0 {
		if args.Get(4) == "" {
			return fmt.Errorf("kind %s requires an explicit size", kind)
		}
		s, err := strconv.ParseUint(args.Get(4), 0, 32)
		if err != nil {
			return err
		}
		size = uint32(s)
	}

	switch kind {
	case scatter.KindBuffer:
		buf, err := scatter.ReadBuffer(e.vm, e.pid, addr, size)
		if err != nil {
			return err
		}
		utils.PrintHexDump(buf)
		return nil
	case scatter.KindString:
		s, err := scatter.ReadString(e.vm, e.pid, addr, size)
		if err != nil {
			return err
		}
		fmt.Printf("%q\n", s)
		return nil
	case scatter.KindPointer:
		v, err := scatter.ReadPtr(e.vm, e.pid, addr)
		if err != nil {
			return err
		}
		fmt.Printf("%#x\n", v)
		return nil
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
