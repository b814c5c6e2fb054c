package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/atinyakov/GophStay/internal/client/form"
)

// Prompter reads answers line by line and writes to the terminal. It is the
// shell's Confirmer and Notifier.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Ask prints label and returns the trimmed answer. It returns io.EOF once
// the input is exhausted.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// AskDefault is Ask with a value used when the answer is empty.
func (p *Prompter) AskDefault(label, def string) (string, error) {
	if def != "" {
		label = fmt.Sprintf("%s[%s] ", label, def)
	}
	s, err := p.Ask(label)
	if err != nil || s != "" {
		return s, err
	}
	return def, nil
}

// AskInt reads a number; an empty answer is 0. Non-numbers are asked again.
func (p *Prompter) AskInt(label string) (int, error) {
	for {
		s, err := p.Ask(label)
		if err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(s)
		if err == nil {
			return n, nil
		}
		p.Printf("%q is not a number\n", s)
	}
}

// AskList reads a comma separated list.
func (p *Prompter) AskList(label string) ([]string, error) {
	s, err := p.Ask(label)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

// Confirm asks a y/N question.
func (p *Prompter) Confirm(_ context.Context, question string) (bool, error) {
	s, err := p.Ask(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(s) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (p *Prompter) Success(msg string) { fmt.Fprintf(p.out, "✓ %s\n", msg) }
func (p *Prompter) Failure(msg string) { fmt.Fprintf(p.out, "✗ %s\n", msg) }

func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Prompter) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

// FormErrors prints validation results, one line per group code or field.
func (p *Prompter) FormErrors(errs form.Errors) {
	for _, code := range errs.Group {
		p.Printf("  ! %s\n", describe(code))
	}
	fields := make([]string, 0, len(errs.Fields))
	for field := range errs.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		p.Printf("  ! %s: %s\n", field, strings.Join(errs.Fields[field], ", "))
	}
}

func describe(code string) string {
	switch code {
	case form.CodeDateRangeIncomplete:
		return "both check-in and check-out are needed"
	case form.CodeInvalidDateRange:
		return "check-out must be after check-in"
	case form.CodePriceRangeIncomplete:
		return "both minimum and maximum price are needed"
	case form.CodeInvalidPriceRange:
		return "minimum price is above maximum price"
	case form.CodeInvalidDate:
		return "dates must look like 2025-12-31"
	}
	return code
}
