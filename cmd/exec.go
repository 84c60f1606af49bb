package cmd

import (
	"github.com/urfave/cli"

	"gather/pkg/logflags"
	"gather/pkg/vmem"
)

type ExecType int

const (
	Read ExecType = iota
	Write
	Chain
	Batch
	Maps
	Shell
)

type executor struct {
	et  ExecType
	pid int
	ctx *cli.Context
	vm  *vmem.VM
}

func newExecutor(et ExecType, pid int, ctx *cli.Context) (*executor, error) {
	if err := logflags.Setup(ctx.GlobalBool("debug"), ctx.GlobalString("logDesc")); err != nil {
		return nil, err
	}

	vm, err := vmem.New(ctx.GlobalInt("cachePages"))
	if err != nil {
		return nil, err
	}

	return &executor{
		et:  et,
		pid: pid,
		ctx: ctx,
		vm:  vm,
	}, nil
}

func (e *executor) run() error {
	switch e.et {
	case Read:
		return e.read()
	case Write:
		return e.write()
	case Chain:
		return e.chain()
	case Batch:
		return e.batch()
	case Maps:
		return e.maps()
	case Shell:
		return e.shell()
	}

	return nil
}

func exec(et ExecType, pid int, ctx *cli.Context) error {
	ex, err := newExecutor(et, pid, ctx)
	if err != nil {
		return err
	}
	return ex.run()
}
