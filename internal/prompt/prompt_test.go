package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitbchqErrors "github.com/gitbchq/gitbchq/internal/errors"
)

// errorReader always fails
type errorReader struct{}

func (errorReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}

func TestPromptYesNo(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input      string
		defaultYes bool
		expected   bool
		wantPrompt string
	}{
		"Yes":               {input: "y\n", expected: true, wantPrompt: "Upload a patch? y/[n]: "},
		"YesWord":           {input: "YES\n", expected: true},
		"No":                {input: "n\n", defaultYes: true, expected: false, wantPrompt: "Upload a patch? [y]/n: "},
		"EmptyDefaultsNo":   {input: "\n", expected: false},
		"EmptyDefaultsYes":  {input: "\n", defaultYes: true, expected: true},
		"RepromptOnGarbage": {input: "maybe\ny\n", expected: true},
		"NoTrailingNewline": {input: "y", expected: true},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			output := &bytes.Buffer{}
			interactor := NewInteractor(strings.NewReader(tc.input), output)

			answer, err := interactor.PromptYesNo(context.Background(), "Upload a patch?", tc.defaultYes)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, answer)
			if tc.wantPrompt != "" {
				assert.True(t, strings.HasPrefix(output.String(), tc.wantPrompt))
			}
		})
	}
}

func TestPromptYesNoReprompts(t *testing.T) {
	output := &bytes.Buffer{}
	interactor := NewInteractor(strings.NewReader("what\nno\n"), output)

	answer, err := interactor.PromptYesNo(context.Background(), "Continue?", false)
	require.NoError(t, err)
	assert.False(t, answer)
	assert.Equal(t, 2, strings.Count(output.String(), "Continue? y/[n]: "))
	assert.Contains(t, output.String(), "Please answer y or n.")
}

func TestPromptYesNoClosedInput(t *testing.T) {
	interactor := NewInteractor(strings.NewReader(""), &bytes.Buffer{})

	_, err := interactor.PromptYesNo(context.Background(), "Continue?", false)
	assert.True(t, gitbchqErrors.Is(err, gitbchqErrors.ErrInputClosed))
}

func TestPromptLine(t *testing.T) {
	output := &bytes.Buffer{}
	interactor := NewInteractor(strings.NewReader("  2 \r\nnext\n"), output)

	first, err := interactor.PromptLine(context.Background(), "Pick: ")
	require.NoError(t, err)
	assert.Equal(t, "2", first)

	second, err := interactor.PromptLine(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "next", second)

	assert.Equal(t, "Pick: ", output.String())

	_, err = interactor.PromptLine(context.Background(), "Again: ")
	assert.True(t, gitbchqErrors.Is(err, gitbchqErrors.ErrInputClosed))
}

func TestPromptLineReadError(t *testing.T) {
	interactor := NewInteractor(errorReader{}, &bytes.Buffer{})

	_, err := interactor.PromptLine(context.Background(), "Pick: ")
	require.Error(t, err)
	assert.True(t, gitbchqErrors.Is(err, gitbchqErrors.ErrInputClosed))
	assert.Contains(t, err.Error(), "read failed")
}

func TestPromptMultiline(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input    string
		expected string
	}{
		"Terminated":          {input: "Fixed the build.\nSee patch.\n.\nleftover\n", expected: "Fixed the build.\nSee patch."},
		"ImmediateTerminator": {input: ".\n", expected: ""},
		"EOFEndsNote":         {input: "only line\n", expected: "only line"},
		"EmptyInput":          {input: "", expected: ""},
		"TrimsBlankEdges":     {input: "\n\nbody\n\n.\n", expected: "body"},
		"KeepsIndentation":    {input: "Steps:\n  - build\n\tgo test ./...\n.\n", expected: "Steps:\n  - build\n\tgo test ./..."},
		"IndentedFirstLine":   {input: "    code()\r\n.\r\n", expected: "    code()"},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			interactor := NewInteractor(strings.NewReader(tc.input), &bytes.Buffer{})
			note, err := interactor.PromptMultiline(context.Background(), "Note:", DefaultTerminator)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, note)
		})
	}
}

func TestMultilineKeepsFollowingInput(t *testing.T) {
	interactor := NewInteractor(strings.NewReader("note\n.\ny\n"), &bytes.Buffer{})

	_, err := interactor.PromptMultiline(context.Background(), "Note:", DefaultTerminator)
	require.NoError(t, err)

	answer, err := interactor.PromptYesNo(context.Background(), "Post?", false)
	require.NoError(t, err)
	assert.True(t, answer)
}

func TestParseYesNo(t *testing.T) {
	_, err := ParseYesNo("perhaps", true)
	assert.True(t, gitbchqErrors.Is(err, gitbchqErrors.ErrInvalidInput))
}

func TestPromptLineCancelledWhileWaiting(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	interactor := NewInteractor(pr, &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := interactor.PromptLine(ctx, "Pick: ")
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("PromptLine did not return after the context was cancelled")
	}
}

func TestPromptMultilineCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	interactor := NewInteractor(pr, &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		_, _ = io.WriteString(pw, "first line\n")
		cancel()
	}()

	_, err := interactor.PromptMultiline(ctx, "Note:", DefaultTerminator)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInputSurvivesCancelledPrompt(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	interactor := NewInteractor(pr, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := interactor.PromptLine(ctx, "Pick: ")
	require.ErrorIs(t, err, context.Canceled)

	go func() { _, _ = io.WriteString(pw, "2\n") }()

	answer, err := interactor.PromptLine(context.Background(), "Pick: ")
	require.NoError(t, err)
	assert.Equal(t, "2", answer)
}
