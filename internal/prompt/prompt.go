package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	gitbchqErrors "github.com/gitbchq/gitbchq/internal/errors"
)

// DefaultTerminator ends a multi-line answer.
const DefaultTerminator = "."

// Interactor defines an interface for interacting with the user.
// Every method returns ctx.Err() as soon as ctx is done, even while
// waiting for input.
type Interactor interface {
	// PromptLine prints prompt and returns the next line of input, trimmed.
	PromptLine(ctx context.Context, prompt string) (string, error)

	// PromptYesNo asks a yes/no question until it gets an answer.
	// An empty answer selects defaultYes.
	PromptYesNo(ctx context.Context, question string, defaultYes bool) (bool, error)

	// PromptMultiline reads lines until one equals terminator or input ends.
	// Lines keep their indentation.
	PromptMultiline(ctx context.Context, prompt, terminator string) (string, error)
}

// lineResult is one read from the input stream.
type lineResult struct {
	line string
	err  error
}

// DefaultInteractor is the standard implementation of Interactor.
// Input is read by a single goroutine for the whole session, so that input
// typed ahead of a prompt is not lost between prompts and a blocked read
// never holds up cancellation.
type DefaultInteractor struct {
	reader *bufio.Reader
	writer io.Writer

	once  sync.Once
	lines chan lineResult
}

// NewDefaultInteractor creates an Interactor bound to stdin and stdout
func NewDefaultInteractor() *DefaultInteractor {
	return NewInteractor(os.Stdin, os.Stdout)
}

// NewInteractor creates an Interactor over arbitrary streams
func NewInteractor(r io.Reader, w io.Writer) *DefaultInteractor {
	return &DefaultInteractor{
		reader: bufio.NewReader(r),
		writer: w,
		lines:  make(chan lineResult, 1),
	}
}

// PromptLine implements Interactor.PromptLine
func (i *DefaultInteractor) PromptLine(ctx context.Context, prompt string) (string, error) {
	if prompt != "" {
		_, _ = fmt.Fprint(i.writer, prompt)
	}
	line, err := i.readLine(ctx)
	return strings.TrimSpace(line), err
}

// PromptYesNo implements Interactor.PromptYesNo
func (i *DefaultInteractor) PromptYesNo(ctx context.Context, question string, defaultYes bool) (bool, error) {
	choices := "y/[n]"
	if defaultYes {
		choices = "[y]/n"
	}

	for {
		answer, err := i.PromptLine(ctx, fmt.Sprintf("%s %s: ", question, choices))
		if err != nil {
			return false, err
		}

		value, err := ParseYesNo(answer, defaultYes)
		if err == nil {
			return value, nil
		}
		_, _ = fmt.Fprintln(i.writer, "Please answer y or n.")
	}
}

// PromptMultiline implements Interactor.PromptMultiline
func (i *DefaultInteractor) PromptMultiline(ctx context.Context, prompt, terminator string) (string, error) {
	if prompt != "" {
		_, _ = fmt.Fprintln(i.writer, prompt)
	}

	var lines []string
	for {
		line, err := i.readLine(ctx)
		if err != nil {
			if gitbchqErrors.Is(err, gitbchqErrors.ErrInputClosed) {
				break
			}
			return "", err
		}
		if strings.TrimSpace(line) == terminator {
			break
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}

	return strings.Join(trimBlankLines(lines), "\n"), nil
}

// readLine returns the next line without its line ending. EOF after a
// partial line still returns that line; EOF on an empty buffer is ErrInputClosed.
func (i *DefaultInteractor) readLine(ctx context.Context) (string, error) {
	i.once.Do(i.startReader)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-i.lines:
		if !ok {
			return "", gitbchqErrors.ErrInputClosed
		}
		if r.err != nil {
			if r.err == io.EOF && r.line != "" {
				return trimLineEnding(r.line), nil
			}
			if r.err == io.EOF {
				return "", gitbchqErrors.ErrInputClosed
			}
			return "", gitbchqErrors.Wrap(gitbchqErrors.ErrInputClosed, r.err.Error())
		}
		return trimLineEnding(r.line), nil
	}
}

// startReader feeds i.lines until the input fails or ends, then closes it.
func (i *DefaultInteractor) startReader() {
	go func() {
		defer close(i.lines)
		for {
			line, err := i.reader.ReadString('\n')
			i.lines <- lineResult{line: line, err: err}
			if err != nil {
				return
			}
		}
	}()
}

func trimLineEnding(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// trimBlankLines drops whitespace-only lines at both ends.
func trimBlankLines(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// ParseYesNo interprets a yes/no answer. Empty input selects defaultYes.
func ParseYesNo(answer string, defaultYes bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, gitbchqErrors.Wrapf(gitbchqErrors.ErrInvalidInput, "%q is not y or n", answer)
}
