package git

import (
	"context"
	"os/exec"
	"strings"
)

// MockCommandExecutor is a simple mock of the CommandExecutor interface
// that doesn't actually execute anything but just records calls.
type MockCommandExecutor struct {
	Output              string
	Outputs             map[string]string
	Commands            []*exec.Cmd
	ExecuteWithOutputFn func(ctx context.Context, cmd *exec.Cmd) (string, error)
}

// Execute implements the CommandExecutor interface
func (m *MockCommandExecutor) Execute(ctx context.Context, cmd *exec.Cmd) error {
	_, err := m.ExecuteWithOutput(ctx, cmd)
	return err
}

// ExecuteWithOutput implements the CommandExecutor interface.
// Outputs is keyed by the git arguments after "-C <path>", joined by spaces.
func (m *MockCommandExecutor) ExecuteWithOutput(ctx context.Context, cmd *exec.Cmd) (string, error) {
	m.Commands = append(m.Commands, cmd)

	if m.ExecuteWithOutputFn != nil {
		return m.ExecuteWithOutputFn(ctx, cmd)
	}

	if out, ok := m.Outputs[gitArgs(cmd)]; ok {
		return out, nil
	}
	return m.Output, nil
}

// ExecuteWithContext implements the CommandExecutor interface
func (m *MockCommandExecutor) ExecuteWithContext(ctx context.Context, name string, args ...string) error {
	return m.Execute(ctx, exec.Command(name, args...))
}

// ExecuteWithContextAndOutput implements the CommandExecutor interface
func (m *MockCommandExecutor) ExecuteWithContextAndOutput(ctx context.Context, name string, args ...string) (string, error) {
	return m.ExecuteWithOutput(ctx, exec.Command(name, args...))
}

// NewMockCommandExecutor creates a new mock executor
func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		Outputs:  make(map[string]string),
		Commands: make([]*exec.Cmd, 0),
	}
}

// gitArgs strips the binary and the "-C <path>" prefix.
func gitArgs(cmd *exec.Cmd) string {
	args := cmd.Args[1:]
	if len(args) >= 2 && args[0] == "-C" {
		args = args[2:]
	}
	return strings.Join(args, " ")
}
