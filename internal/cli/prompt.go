package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/normino/normino/internal/ui/pretty"
)

// Prompter asks the user for decisions during push.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(question string) (bool, error)

	// Input asks for a line of text.
	Input(question string) (string, error)
}

// newPrompter uses huh forms when both ends are terminals and falls back to
// reading lines otherwise, so piped answers keep working.
func newPrompter(in io.Reader, out io.Writer, styles *pretty.Styles) Prompter {
	if isTerminal(in) && isTerminal(out) {
		return formPrompter{}
	}
	return &linePrompter{in: bufio.NewReader(in), out: out, styles: styles}
}

func isTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type formPrompter struct{}

func (formPrompter) Confirm(question string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, context.Canceled
	}
	return ok, err
}

func (formPrompter) Input(question string) (string, error) {
	var answer string
	err := huh.NewInput().
		Title(question).
		Value(&answer).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", context.Canceled
	}
	return strings.TrimSpace(answer), err
}

// linePrompter reads answers one line at a time.
type linePrompter struct {
	in     *bufio.Reader
	out    io.Writer
	styles *pretty.Styles
}

// Confirm repeats the question until it reads y or n. End of input counts
// as no.
func (p *linePrompter) Confirm(question string) (bool, error) {
	for {
		fmt.Fprint(p.out, p.styles.Prompt.Render(question+" (y/n): "))

		line, err := p.in.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}

		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return false, nil
		}
		if err != nil {
			return false, err
		}

		fmt.Fprintln(p.out, "Invalid input. Please enter 'y' or 'n'.")
	}
}

func (p *linePrompter) Input(question string) (string, error) {
	fmt.Fprint(p.out, p.styles.Prompt.Render(question+": "))

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// assumeYes answers every confirmation with yes.
type assumeYes struct {
	Prompter
}

func (assumeYes) Confirm(string) (bool, error) {
	return true, nil
}
