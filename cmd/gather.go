package cmd

import (
	"gather/pkg/logflags"
	"github.com/urfave/cli"
)

const (
	usage = `gather is a scatter read/write tool for process memory: it batches many
             reads of a target process into one page fetch per round and rebuilds
             typed values, including pointer chains, from the fetched pages`
)

func NewGather() *cli.App {
	app := cli.NewApp()
	app.Name = "gather"
	app.Usage = usage
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug, f",
			Usage: "enable debug logging",
		},
		cli.StringFlag{
			Name:  "logDesc, d",
			Usage: "specify the log file path",
			Value: logflags.DefaultLogDesc,
		},
		cli.IntFlag{
			Name:  "cachePages, c",
			Usage: "page cache capacity",
		},
	}
	app.Commands = []cli.Command{
		read,
		write,
		chain,
		batch,
		maps,
		shell,
	}

	return app
}
