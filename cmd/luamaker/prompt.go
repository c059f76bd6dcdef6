package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"luamaker/internal/appsource"
)

// errNoInput reports that stdin closed before an answer was read.
var errNoInput = errors.New("no input")

type prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	return &prompter{
		in:          bufio.NewReader(in),
		out:         cmd.ErrOrStderr(),
		interactive: isTerminal(in),
	}
}

func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		if errors.Is(err, io.EOF) {
			return "", errNoInput
		}
		return "", err
	}
	return line, nil
}

func (p *prompter) confirm(label string) bool {
	answer, err := p.ask(label)
	if err != nil {
		return false
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}

// fileWaiter asks the user to save the metadata document, then retries.
func (p *prompter) fileWaiter() appsource.Waiter {
	return func(ctx context.Context, path, hint string) bool {
		if ctx.Err() != nil {
			return false
		}
		fmt.Fprintf(p.out, "steamcmd did not return usable app metadata; save the raw document to %s\n", path)
		if hint != "" {
			fmt.Fprintf(p.out, "Download from %s\n", hint)
		}
		_, err := p.ask("Press Enter once the file is in place (Ctrl-D to give up)... ")
		return err == nil
	}
}
