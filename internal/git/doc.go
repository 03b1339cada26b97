// Package git provides the git operations gitbchq needs.
//
// Repository reads the last commit, its parent, the patch between them
// and values from the git configuration store. Every call shells out to
// the git executable through a CommandExecutor, which tests replace with
// a mock.
//
// # Core Components
//
// - Repository: commit information and configuration for one working tree
// - CommandExecutor: interface for executing git commands
// - ExecExecutor: os/exec implementation of CommandExecutor
//
// # Usage
//
//	repo, err := git.NewRepository("/path/to/repo", log)
//	if err != nil {
//	    // Handle error
//	}
//
//	commitLog, err := repo.LastCommitLogFormatted(ctx, true)
//	patch, err := repo.DiffAgainstParent(ctx)
//	name, err := repo.PatchFileName(ctx) // e.g. "1a2b3c4-5d6e7f8.patch"
//
// # Error Handling
//
// Failed invocations return a *errors.GitError that wraps
// errors.ErrGitOperationFailed and the underlying *exec.ExitError.
//
// # Implementation Notes
//
// The package uses the command-line Git executable rather than a Go Git library.
// This ensures compatibility with all Git features and repository configurations.
package git
