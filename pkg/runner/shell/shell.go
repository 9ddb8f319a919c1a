// Package shell reads command lines and hands them to a runner until the
// input ends or a command asks to exit.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-shellwords"
)

// RunFunc runs one command line. exit ends the shell.
type RunFunc func(ctx context.Context, args []string) (exit bool, err error)

type Shell struct {
	In     io.Reader
	Out    io.Writer
	Prompt string
	Run    RunFunc
}

// Split breaks a command line into arguments. Quotes group words and
// backslashes escape; environment variables are not expanded. Unquoted
// shell operators are rejected rather than ending the line early.
func Split(line string) ([]string, error) {
	p := shellwords.NewParser()
	args, err := p.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("shell: %w", err)
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("shell: unquoted %q in line; quote it to use it as text", []rune(line)[p.Position])
	}
	return args, nil
}

// terminal reports whether r is an interactive terminal.
func terminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (s *Shell) Do(ctx context.Context) error {
	in, out := s.In, s.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = color.Output
	}
	prompt := s.Prompt
	if prompt == "" {
		prompt = "taskq> "
	}
	interactive := terminal(in)
	p := color.New(color.FgHiBlue, color.Bold)
	e := color.New(color.FgRed)

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			_, _ = p.Fprint(out, prompt)
		}
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args, err := Split(line)
		if err != nil {
			_, _ = e.Fprintf(out, "%v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		exit, err := s.Run(ctx, args)
		if err != nil {
			_, _ = e.Fprintf(out, "%v\n", err)
		}
		if exit {
			return nil
		}
	}
	if interactive {
		_, _ = fmt.Fprintln(out)
	}
	return scanner.Err()
}
