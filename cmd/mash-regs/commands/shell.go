package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Shell is an interactive register console.
type Shell struct {
	session *Session
	out     io.Writer
	rl      *readline.Instance
}

// NewShell creates a shell over an open session. Output goes to out until
// Run attaches the terminal.
func NewShell(s *Session, out io.Writer) *Shell {
	return &Shell{session: s, out: out}
}

// Run starts the interactive command loop.
func (sh *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "regs> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    sh.completer(),
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	sh.rl = rl
	sh.out = rl.Stdout()

	sh.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}

		if quit := sh.Execute(ctx, line); quit {
			return nil
		}
	}
}

// Execute runs one command line and reports whether the shell should exit.
func (sh *Shell) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		sh.printHelp()

	case "read", "r":
		sh.cmdRead(ctx, args)

	case "write", "w":
		sh.cmdWrite(ctx, args)

	case "plan", "p":
		if err := RunPlan(sh.session.Map, sh.session.gap, sh.out); err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
		}

	case "list", "ls":
		sh.cmdList()

	case "quit", "exit", "q":
		fmt.Fprintln(sh.out, "Exiting...")
		return true

	default:
		fmt.Fprintf(sh.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (sh *Shell) cmdRead(ctx context.Context, names []string) {
	readings, _, err := sh.session.Read(ctx, names)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	printReadings(sh.out, readings)
}

func (sh *Shell) cmdWrite(ctx context.Context, args []string) {
	var assignments []Assignment
	if len(args) == 2 && !strings.Contains(args[0], "=") {
		assignments = []Assignment{{Name: args[0], Value: args[1]}}
	} else {
		var err error
		if assignments, err = ParseAssignments(args); err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
			return
		}
	}
	if len(assignments) == 0 {
		fmt.Fprintln(sh.out, "Usage: write <name> <value> | write name=value ...")
		return
	}

	if err := sh.session.Write(ctx, assignments); err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	if err := sh.session.SaveImage(); err != nil {
		fmt.Fprintf(sh.out, "Error: failed to save image: %v\n", err)
		return
	}
	for _, a := range assignments {
		fmt.Fprintf(sh.out, "%s <- %s\n", a.Name, a.Value)
	}
}

func (sh *Shell) cmdList() {
	for _, r := range sh.session.Map.Sorted() {
		width, _ := r.Width()
		fmt.Fprintf(sh.out, "0x%04X  %-2s  %-5s %2d  %s", r.Address, r.Access, r.Type, width, r.Name)
		if r.Unit != "" {
			fmt.Fprintf(sh.out, " [%s]", r.Unit)
		}
		fmt.Fprintln(sh.out)
	}
}

func (sh *Shell) completer() *readline.PrefixCompleter {
	names := make([]readline.PrefixCompleterInterface, 0, len(sh.session.Map.Registers))
	for _, n := range sh.session.Map.Names() {
		names = append(names, readline.PcItem(n))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("read", names...),
		readline.PcItem("write", names...),
		readline.PcItem("plan"),
		readline.PcItem("list"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

func (sh *Shell) printHelp() {
	fmt.Fprintln(sh.out, `
Register Shell Commands:
  read [name...]        - Read registers (all readable when no names given)
  write <name> <value>  - Write one register
  write name=value ...  - Write several registers in one pass
  plan                  - Show merge windows for a full read
  list                  - List registers in address order
  help                  - Show this help
  quit                  - Exit`)
}
