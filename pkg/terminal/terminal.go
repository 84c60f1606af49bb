package terminal

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"
	"path"
	"strings"
	"syscall"

	"github.com/derekparker/trie"
	"github.com/go-delve/liner"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"gather/pkg/vmem"
)

const (
	prompt                             = "(gather) "
	gatherDir                          = ".gather"
	historyFile                 string = ".gather_history"
	terminalHighlightEscapeCode string = "\033[%2dm"
	terminalResetEscapeCode     string = "\033[0m"

	promptColor = 34
)

// Term is an interactive session against a single target process. Labels
// are session-local names for addresses, completed and fuzzy-searched
// through a trie.
type Term struct {
	pid         int
	vm          *vmem.VM
	prompt      string
	line        *liner.State
	cmds        *Commands
	labels      *trie.Trie
	historyFile *os.File
	stdout      io.Writer
	useColor    bool
}

func New(pid int, vm *vmem.VM) *Term {
	t := &Term{
		pid:      pid,
		vm:       vm,
		line:     liner.NewLiner(),
		prompt:   prompt,
		labels:   trie.New(),
		stdout:   colorable.NewColorableStdout(),
		useColor: isatty.IsTerminal(os.Stdout.Fd()),
	}
	t.cmds = NewCommands()

	return t
}

func (t *Term) sigintGuard(ch <-chan os.Signal) {
	for range ch {
		fmt.Fprintf(t.stdout, "received SIGINT (target keeps running)\n")
	}
}

func (t *Term) Run() error {
	defer t.Close()

	var (
		err error
	)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go t.sigintGuard(ch)

	cmds := trie.New()
	for _, cmd := range t.cmds.cmds {
		for _, alias := range cmd.aliases {
			cmds.Add(alias, nil)
		}
	}

	t.line.SetCompleter(func(line string) (c []string) {
		c = cmds.PrefixSearch(line)
		if word := lastWord(line); word != "" {
			head := line[:len(line)-len(word)]
			for _, name := range t.labels.PrefixSearch(word) {
				c = append(c, head+name)
			}
		}
		return
	})

	userHomeDir := getUserHomeDir()
	fullHistory := path.Join(userHomeDir, gatherDir, historyFile)

	t.historyFile, err = os.OpenFile(fullHistory, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(parentDir(fullHistory), 0755); err != nil {
				return fmt.Errorf("create parent dir failed: %v", err)
			}

			t.historyFile, err = os.OpenFile(fullHistory, os.O_CREATE|os.O_RDWR, 0600)
		} else {
			fmt.Printf("Unable to open history file: %v. History will not be saved for this session.\n", err)
			return err
		}
	}

	if _, err = t.line.ReadHistory(t.historyFile); err != nil {
		fmt.Printf("Unable to read history file %s: %v\n", fullHistory, err)
		return err
	}

	fmt.Printf("Attached to pid %d. Type 'help' for list of commands.\n", t.pid)

	for {
		cmd, err := t.promptForInput()
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(t.stdout, "exit")
				return t.handleExit()
			}
			return fmt.Errorf("prompt for input failed: %v", err)
		}

		if strings.TrimSpace(cmd) == "" {
			continue
		}

		if err = t.cmds.Call(cmd, t); err != nil {
			if _, ok := err.(ExitRequestError); ok {
				return t.handleExit()
			}

			fmt.Fprintf(os.Stderr, "Command failed: %s\n", err)
		}
	}
}

func (t *Term) Close() {
	t.line.Close()
}

func getUserHomeDir() string {
	userHomeDir := "."
	usr, err := user.Current()
	if err == nil {
		userHomeDir = usr.HomeDir
	}
	return userHomeDir
}

func (t *Term) promptForInput() (string, error) {
	if t.useColor {
		fmt.Fprintf(os.Stdout, terminalHighlightEscapeCode, promptColor)
		defer fmt.Fprint(os.Stdout, terminalResetEscapeCode)
	}

	l, err := t.line.Prompt(t.prompt)
	if err != nil {
		return "", err
	}

	l = strings.TrimSuffix(l, "\n")
	if l != "" {
		t.line.AppendHistory(l)
	}

	return l, nil
}

func (t *Term) handleExit() error {
	if t.historyFile != nil {
		if _, err := t.line.WriteHistory(t.historyFile); err != nil {
			fmt.Println("readline history error:", err)
			return err
		}
		if err := t.historyFile.Close(); err != nil {
			fmt.Printf("error closing history file: %s\n", err)
			return err
		}
	}

	return nil
}

func lastWord(line string) string {
	if i := strings.LastIndexByte(line, ' '); i >= 0 {
		return line[i+1:]
	}
	return ""
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == os.PathSeparator {
			return path[:i]
		}
	}
	return ""
}
