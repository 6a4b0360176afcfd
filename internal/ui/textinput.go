package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TextInput reads commands line by line and hands each trimmed, non-empty
// line to OnSubmit. It stops at end of input or once OnSubmit clears
// IsActive.
type TextInput struct {
	Prompt   string
	IsActive bool
	OnSubmit func(string)

	in  *bufio.Scanner
	out io.Writer
}

func NewTextInput(r io.Reader, w io.Writer, prompt string, onSubmit func(string)) *TextInput {
	return &TextInput{
		Prompt:   prompt,
		IsActive: false,
		OnSubmit: onSubmit,
		in:       bufio.NewScanner(r),
		out:      w,
	}
}

// Run blocks until the input is exhausted or the input is deactivated.
func (ti *TextInput) Run() error {
	ti.IsActive = true
	for ti.IsActive {
		if ti.Prompt != "" && ti.out != nil {
			fmt.Fprint(ti.out, ti.Prompt)
		}
		if !ti.in.Scan() {
			ti.IsActive = false
			return ti.in.Err()
		}

		text := strings.TrimSpace(ti.in.Text())
		if text == "" {
			continue
		}
		if ti.OnSubmit != nil {
			ti.OnSubmit(text)
		}
	}
	return nil
}
