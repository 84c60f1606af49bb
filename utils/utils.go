package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"
)

const (
	ExactArgs = iota
	MinArgs
	MaxArgs
)

func CheckArgs(context *cli.Context, expected, checkType int, fn func(args cli.Args) error) error {
	var err error
	cmdName := context.Command.Name
	switch checkType {
	case ExactArgs:
		if context.NArg() != expected {
			err = fmt.Errorf("%s: %q requires exactly %d argument(s)", os.Args[0], cmdName, expected)
		}
	case MinArgs:
		if context.NArg() < expected {
			err = fmt.Errorf("%s: %q requires a minimum of %d argument(s)", os.Args[0], cmdName, expected)
		}
	case MaxArgs:
		if context.NArg() > expected {
			err = fmt.Errorf("%s: %q requires a maximum of %d argument(s)", os.Args[0], cmdName, expected)
		}
	}

	if err != nil {
		fmt.Printf("Incorrect Usage.\n\n")
		_ = cli.ShowCommandHelp(context, cmdName)
		return err
	}

	return fn(context.Args())
}

// ParseAddr parses a target address, hex with 0x prefix or decimal.
func ParseAddr(s string) (uint64, error) {
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		return strconv.ParseUint(rest, 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

// ParseOffsets parses a comma-separated offset list, e.g. "0x10,0x8,0x30".
func ParseOffsets(s string) ([]uint64, error) {
	parts := strings.Split(s, ",")
	offsets := make([]uint64, 0, len(parts))
	for _, part := range parts {
		off, err := ParseAddr(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("offset %q: %w", part, err)
		}
		offsets = append(offsets, off)
	}
	return offsets, nil
}
