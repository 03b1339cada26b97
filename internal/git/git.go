package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	gitbchqErrors "github.com/gitbchq/gitbchq/internal/errors"
	"github.com/gitbchq/gitbchq/internal/logger"
)

// Revisions compared when building the patch and the attachment name.
const (
	HeadRevision   = "HEAD"
	ParentRevision = "HEAD~1"
)

// Repository reads commit information and configuration from a local
// git repository by shelling out to the git executable.
type Repository struct {
	// path is the working tree every command runs against (git -C path)
	path string

	// logger records each git invocation in the debug log
	logger logger.Logger

	// executor runs git and captures its output
	executor CommandExecutor
}

// NewRepository creates a Repository for path with the default executor.
func NewRepository(path string, logger logger.Logger) (*Repository, error) {
	return NewRepositoryWithDeps(path, logger, NewExecExecutor())
}

// NewRepositoryWithDeps creates a Repository with a custom executor.
func NewRepositoryWithDeps(path string, logger logger.Logger, executor CommandExecutor) (*Repository, error) {
	if path == "" {
		return nil, gitbchqErrors.New("repository path must not be empty")
	}
	if executor == nil {
		return nil, gitbchqErrors.New("executor must not be nil")
	}

	return &Repository{
		path:     path,
		logger:   logger,
		executor: executor,
	}, nil
}

// IsRepository checks if the given path is a git repository
// Returns true if it is a repository, false otherwise.
// If path is not a repository due to git exit code 128, returns (false, nil).
// For other errors (git not found, permission issues, etc), returns (false, err).
func IsRepository(path string) (bool, error) {
	executor := NewExecExecutor()
	err := executor.ExecuteWithContext(context.Background(), "git", "-C", path, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		var exitErr *exec.ExitError
		if gitbchqErrors.As(err, &exitErr) && exitErr.ExitCode() == 128 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Path returns the working tree path.
func (r *Repository) Path() string {
	return r.path
}

// LastCommitShortHash returns the abbreviated hash of HEAD.
func (r *Repository) LastCommitShortHash(ctx context.Context) (string, error) {
	return r.shortHash(ctx, HeadRevision)
}

// ParentCommitShortHash returns the abbreviated hash of HEAD's first parent.
func (r *Repository) ParentCommitShortHash(ctx context.Context) (string, error) {
	return r.shortHash(ctx, ParentRevision)
}

// LastCommitLogFormatted returns the last commit in medium format with
// rename/copy detection and a diffstat. With color enabled the output
// contains ANSI SGR sequences.
func (r *Repository) LastCommitLogFormatted(ctx context.Context, color bool) (string, error) {
	colorFlag := "--no-color"
	if color {
		colorFlag = "--color=always"
	}

	output, err := r.runGitCommandWithOutput(ctx, "log", "-1", "--date=rfc", "-M", "-C", "--stat", "--pretty=medium", colorFlag)
	if err != nil {
		return "", wrapGitError(err, "log", "failed to read last commit")
	}
	return strings.TrimSpace(output), nil
}

// DiffAgainstParent returns the unified patch between HEAD~1 and HEAD
// exactly as git prints it, so that it still applies with git apply.
func (r *Repository) DiffAgainstParent(ctx context.Context) (string, error) {
	output, err := r.runGitCommandWithOutput(ctx, "diff", "-p", "--no-color", ParentRevision, HeadRevision)
	if err != nil {
		return "", wrapGitError(err, "diff", "failed to build patch")
	}
	return output, nil
}

// PatchFileName names the uploaded patch after the two most recent commits: {parent}-{head}.patch
func (r *Repository) PatchFileName(ctx context.Context) (string, error) {
	parent, err := r.ParentCommitShortHash(ctx)
	if err != nil {
		return "", err
	}
	head, err := r.LastCommitShortHash(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s.patch", parent, head), nil
}

// ConfigValue returns the value of key from the repository's git
// configuration. A key that is not set yields ("", nil).
func (r *Repository) ConfigValue(ctx context.Context, key string) (string, error) {
	output, err := r.runGitCommandWithOutput(ctx, "config", "--get", key)
	if err == nil {
		return strings.TrimSpace(output), nil
	}

	var exitErr *exec.ExitError
	if gitbchqErrors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		// Exit code 1 means the key is not set
		return "", nil
	}
	return "", wrapGitError(err, "config", fmt.Sprintf("failed to read %s", key))
}

// shortHash resolves rev to its abbreviated object name.
func (r *Repository) shortHash(ctx context.Context, rev string) (string, error) {
	output, err := r.runGitCommandWithOutput(ctx, "rev-parse", "--short", rev)
	if err != nil {
		return "", wrapGitError(err, "rev-parse", fmt.Sprintf("failed to resolve %s", rev))
	}
	return strings.TrimSpace(output), nil
}

// runGitCommandWithOutput executes a git command and returns its output with context.
func (r *Repository) runGitCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	if r.logger != nil {
		r.logger.Info("git %s", strings.Join(args, " "))
	}
	allArgs := append([]string{"-C", r.path}, args...)
	return r.executor.ExecuteWithContextAndOutput(ctx, "git", allArgs...)
}

// wrapGitError keeps GitErrors as they are and turns anything else into one.
func wrapGitError(err error, operation, message string) error {
	var gitErr *gitbchqErrors.GitError
	if gitbchqErrors.As(err, &gitErr) {
		return err
	}
	return gitbchqErrors.NewGitError(operation, nil,
		gitbchqErrors.Errorf("%w: %s: %w", gitbchqErrors.ErrGitOperationFailed, message, err), "")
}
