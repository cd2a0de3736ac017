package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Terminal is the interactive side of the CLI. It implements view.Alerter
// and view.Navigator and asks yes/no questions on its input.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal reads answers from in and writes prompts to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Alert prints msg as a blocking notice.
func (t *Terminal) Alert(msg string) {
	fmt.Fprintf(t.out, "! %s\n", msg)
}

// Navigate announces the screen the user is sent to.
func (t *Terminal) Navigate(route string) {
	fmt.Fprintf(t.out, "-> %s\n", route)
}

// Confirm asks question and reports whether the answer was yes. End of
// input counts as no.
func (t *Terminal) Confirm(question string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N]: ", question)

	answer, err := t.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}

	return false, nil
}
