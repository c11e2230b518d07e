// Package console implements the interactive line-oriented editor: one
// command per line, read from a terminal or a script, executed against a
// session.Manager.
//
// A failing command prints "Error: <message>" and the loop continues; only
// "exit", end of input or a cancelled context stops it.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/ironsheep/netpbm-tools-mcp/internal/session"
)

// Console reads commands from in and writes results to out.
type Console struct {
	sessions *session.Manager
	in       io.Reader
	out      io.Writer
	log      *slog.Logger
	prompt   bool
	commands map[string]command
}

// Option configures a Console.
type Option func(*Console)

// WithPrompt prints "> " before reading each line.
func WithPrompt() Option {
	return func(c *Console) { c.prompt = true }
}

// New creates a console over sessions. A nil logger uses slog.Default().
func New(sessions *session.Manager, in io.Reader, out io.Writer, logger *slog.Logger, opts ...Option) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Console{
		sessions: sessions,
		in:       in,
		out:      out,
		log:      logger,
		commands: commands(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run processes commands until exit, end of input or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "Welcome to the Netpbm image editor!")
	fmt.Fprintln(c.out, "Type 'help' for available commands.")

	scanner := bufio.NewScanner(c.in)
	for {
		if c.prompt {
			fmt.Fprint(c.out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		quit, err := c.Execute(scanner.Text())
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// Execute runs a single command line. quit is true after "exit". Blank
// lines are ignored. A panicking command is reported as an error.
func (c *Console) Execute(line string) (quit bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("command panicked", "line", line, "panic", r, "stack", string(debug.Stack()))
			quit, err = false, fmt.Errorf("internal error: %v", r)
		}
	}()

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "exit":
		fmt.Fprintln(c.out, "Goodbye!")
		return true, nil
	case "help":
		c.help()
		return false, nil
	}

	cmd, ok := c.commands[name]
	if !ok {
		return false, fmt.Errorf("unknown command: %s. Type 'help' for available commands", fields[0])
	}
	if err := cmd.checkArgs(name, args); err != nil {
		return false, err
	}

	c.log.Debug("running command", "command", name, "args", args)
	return false, cmd.run(c, args)
}

func (c *Console) help() {
	fmt.Fprintln(c.out, "Available commands:")
	for _, name := range commandOrder {
		cmd := c.commands[name]
		fmt.Fprintf(c.out, "  %-34s - %s\n", cmd.usage, cmd.help)
	}
	fmt.Fprintf(c.out, "  %-34s - %s\n", "help", "Show this help")
	fmt.Fprintf(c.out, "  %-34s - %s\n", "exit", "Exit the program")
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format+"\n", args...)
}
