// Package prompt reads answers from a console. When the input is a terminal
// single-key questions switch it to raw mode; otherwise each answer is a line.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput is returned when the input ends before an answer is given.
var ErrNoInput = errors.New("prompt: input closed")

type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int // terminal descriptor, -1 when in is not a terminal
}

func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
	}
	return p
}

// Stdio prompts on the process console.
func Stdio() *Prompter { return New(os.Stdin, os.Stdout) }

// Printf writes to the prompt's output.
func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// InputString asks until a non-empty answer arrives, unless allowEmpty.
func (p *Prompter) InputString(prompt string, allowEmpty bool) (string, error) {
	for {
		fmt.Fprint(p.out, prompt)
		s, err := p.readLine()
		if err != nil {
			fmt.Fprintln(p.out)
			return "", err
		}
		if s != "" || allowEmpty {
			return s, nil
		}
	}
}

// InputSecret is InputString without echo on a terminal.
func (p *Prompter) InputSecret(prompt string) (string, error) {
	if p.fd < 0 {
		return p.InputString(prompt, false)
	}
	for {
		fmt.Fprint(p.out, prompt)
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		if s := strings.TrimSpace(string(b)); s != "" {
			return s, nil
		}
	}
}

// InputInt asks until the answer is an integer within [min, max].
func (p *Prompter) InputInt(prompt string, min, max int) (int, error) {
	for {
		s, err := p.InputString(prompt, false)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(s)
		if err == nil && n >= min && n <= max {
			return n, nil
		}
		fmt.Fprintf(p.out, "Please enter a number between %d and %d.\n", min, max)
	}
}

// YesNo returns true only for an answer starting with y or Y.
func (p *Prompter) YesNo(prompt string) (bool, error) {
	s, err := p.InputString(prompt, true)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(s), "y"), nil
}

// WaitEnter returns true if the next key is Enter and false for any other
// key. Without a terminal the next line stands in for the key: an empty line
// is Enter.
func (p *Prompter) WaitEnter(prompt string) (bool, error) {
	fmt.Fprint(p.out, prompt)
	if p.fd < 0 {
		s, err := p.readLine()
		if err != nil {
			fmt.Fprintln(p.out)
			return false, err
		}
		return s == "", nil
	}
	old, err := term.MakeRaw(p.fd)
	if err != nil {
		return false, err
	}
	b, err := p.in.ReadByte()
	_ = term.Restore(p.fd, old)
	fmt.Fprintln(p.out)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, ErrNoInput
		}
		return false, err
	}
	return b == '\r' || b == '\n', nil
}
