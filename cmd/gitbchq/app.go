package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/gitbchq/gitbchq/internal/basecamp"
	"github.com/gitbchq/gitbchq/internal/config"
	gitbchqErrors "github.com/gitbchq/gitbchq/internal/errors"
	"github.com/gitbchq/gitbchq/internal/git"
	"github.com/gitbchq/gitbchq/internal/logger"
	"github.com/gitbchq/gitbchq/internal/prompt"
	"github.com/gitbchq/gitbchq/internal/workflow"
)

// Repository is the git collaborator: it provides the last commit and
// reads the basecamp.* keys from the git configuration store.
type Repository interface {
	workflow.CommitSource
	config.GitConfigReader
}

// Runner runs one interactive session.
type Runner interface {
	Run(ctx context.Context) (*workflow.Result, error)
}

// AppOptions contains app configuration and dependencies.
// This struct allows injection of both required and optional dependencies,
// enabling flexible configuration and easier testing.
type AppOptions struct {
	// Config holds the application configuration settings (required).
	// The application will panic if this field is nil.
	Config *config.Config

	// Optional components

	// Logger provides logging functionality (optional, a default will be created if nil).
	Logger logger.Logger

	// Repository reads commits and git configuration (optional, defaults to
	// a git.Repository for Config.RepoPath).
	Repository Repository

	// API talks to Basecamp (optional, defaults to a basecamp.API over a new Client).
	API workflow.ResourceAPI

	// Interactor asks the user questions (optional, defaults to one reading Stdin).
	Interactor prompt.Interactor

	// Workflow runs the session (optional, built from the components above).
	Workflow Runner

	// I/O dependencies

	// Stdin is where answers are read from (optional, defaults to os.Stdin).
	Stdin io.Reader

	// Stdout is the writer for standard output (optional, defaults to os.Stdout).
	// Used for prompts, listings and user-facing messages.
	Stdout io.Writer

	// Stderr is the writer for error output (optional, defaults to os.Stderr).
	Stderr io.Writer

	// System dependencies

	// Exit is the function to terminate the application (optional, defaults to os.Exit).
	Exit func(code int)

	// ExecLookPath is used to find executables in PATH (optional, defaults to exec.LookPath).
	ExecLookPath func(file string) (string, error)

	// IsRepository checks if a path is a valid Git repository (optional, defaults to git.IsRepository).
	IsRepository func(string) (bool, error)
}

// App is the main gitbchq application.
// It wires configuration, git, the Basecamp client and the terminal
// together and runs a single workflow session.
type App struct {
	// Config holds the application configuration and settings.
	Config *config.Config

	// Logger provides logging functionality for both internal and user-facing messages.
	Logger logger.Logger

	// Repository reads commits and git configuration.
	Repository Repository

	// API talks to Basecamp.
	API workflow.ResourceAPI

	// Interactor asks the user questions.
	Interactor prompt.Interactor

	// Workflow runs the session.
	Workflow Runner

	// I/O streams

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies

	exit         func(code int)
	execLookPath func(file string) (string, error)
	isRepository func(string) (bool, error)

	// client is set when the App created the Basecamp connection itself
	client *basecamp.Client
}

// NewDefaultApp creates an App with standard dependencies.
// It initializes a new Config with the provided version information,
// loads environment variables, and sets up standard OS dependencies.
func NewDefaultApp(versionInfo config.VersionInfo) *App {
	cfg := config.New()
	cfg.VersionInfo = versionInfo
	cfg.LoadFromEnvironment()

	opts := AppOptions{
		Config:       cfg,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Exit:         os.Exit,
		ExecLookPath: exec.LookPath,
		IsRepository: git.IsRepository,
	}

	return NewApp(opts)
}

// NewApp creates an App with custom dependencies specified in opts.
// It panics if Config is nil. Missing optional dependencies are created
// during Initialize and Run.
func NewApp(opts AppOptions) *App {
	if opts.Config == nil {
		panic("Config is required in AppOptions")
	}

	app := &App{
		Config:       opts.Config,
		Logger:       opts.Logger,
		Repository:   opts.Repository,
		API:          opts.API,
		Interactor:   opts.Interactor,
		Workflow:     opts.Workflow,
		Stdin:        opts.Stdin,
		Stdout:       opts.Stdout,
		Stderr:       opts.Stderr,
		exit:         opts.Exit,
		execLookPath: opts.ExecLookPath,
		isRepository: opts.IsRepository,
	}

	// Set defaults for nil dependencies
	if app.Stdin == nil {
		app.Stdin = os.Stdin
	}
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.exit == nil {
		app.exit = os.Exit
	}
	if app.execLookPath == nil {
		app.execLookPath = exec.LookPath
	}
	if app.isRepository == nil {
		app.isRepository = git.IsRepository
	}

	return app
}

// Initialize finalizes the process-level configuration and sets up logging.
// Basecamp settings are loaded later by Run, once the repository is known.
func (a *App) Initialize() error {
	if err := a.Config.Finalize(); err != nil {
		if gitbchqErrors.Is(err, gitbchqErrors.ErrInvalidConfiguration) {
			return err
		}
		return gitbchqErrors.Wrap(gitbchqErrors.ErrInvalidConfiguration, err.Error())
	}

	if a.Logger == nil {
		a.Logger = logger.New(a.Config.Debug, a.Config.LogFile, a.Config.Verbose)
	}

	return nil
}

// Run executes one session with the given context.
func (a *App) Run(ctx context.Context) error {
	if err := a.Initialize(); err != nil {
		return err
	}

	// Handle special flags first
	if a.Config.Version {
		a.ShowVersion()
		return nil
	}

	// Verify prerequisites
	if err := a.checkRequiredCommands(); err != nil {
		return err
	}

	isRepo, err := a.isRepository(a.Config.RepoPath)
	if err != nil {
		a.Logger.Warning("Failed to check if path is a git repository: %v", err)
		return gitbchqErrors.Wrap(gitbchqErrors.ErrGitOperationFailed, err.Error())
	}
	if !isRepo {
		return gitbchqErrors.Wrap(gitbchqErrors.ErrNotGitRepository, a.Config.RepoPath)
	}
	a.Logger.Info("Git repository verified: %s", a.Config.RepoPath)

	if err := a.prepare(ctx); err != nil {
		return err
	}

	result, err := a.Workflow.Run(ctx)
	if result != nil {
		a.Logger.Info("session finished after states %v", result.States)
	}
	return err
}

// prepare loads the Basecamp settings and builds the components that were
// not injected.
func (a *App) prepare(ctx context.Context) error {
	if a.Repository == nil {
		repo, err := git.NewRepository(a.Config.RepoPath, a.Logger)
		if err != nil {
			return gitbchqErrors.Wrap(err, "failed to open repository")
		}
		a.Repository = repo
	}

	if err := a.Config.LoadBasecamp(ctx, a.Repository); err != nil {
		return err
	}
	a.Logger.Info("Basecamp project %d at %s", a.Config.ProjectID, a.Config.BaseURL)

	if a.API == nil {
		client, err := basecamp.NewClient(basecamp.Options{
			BaseURL:   a.Config.BaseURL,
			APIKey:    a.Config.APIKey,
			Timeout:   a.Config.Timeout,
			VerifyTLS: a.Config.VerifyTLS,
		}, a.Logger)
		if err != nil {
			return gitbchqErrors.NewConfigError(config.GitKeyBaseURL, a.Config.BaseURL,
				gitbchqErrors.Wrap(gitbchqErrors.ErrInvalidConfiguration, err.Error()))
		}
		a.client = client
		a.API = basecamp.NewAPI(client, a.Logger)
	}

	if a.Interactor == nil {
		a.Interactor = prompt.NewInteractor(a.Stdin, a.Stdout)
	}

	if a.Workflow == nil {
		a.Workflow = workflow.New(a.API, a.Repository, a.Interactor, a.Logger, workflow.Options{
			ProjectID: a.Config.ProjectID,
		})
	}

	return nil
}

// ShowVersion displays version information
func (a *App) ShowVersion() {
	_, _ = fmt.Fprintf(a.Stdout, "gitbchq %s (%s) built on %s\n",
		a.Config.VersionInfo.Version,
		a.Config.VersionInfo.Commit,
		a.Config.VersionInfo.Date)
}

// checkRequiredCommands verifies git is available in PATH
func (a *App) checkRequiredCommands() error {
	_, err := a.execLookPath("git")
	if err != nil {
		return gitbchqErrors.New("git is not found in PATH, please install it and try again")
	}
	return nil
}

// Close releases resources held by the App
func (a *App) Close() error {
	if a.client != nil {
		a.client.Close()
	}

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to close logger: %v\n", err)
			return err
		}
	}
	return nil
}
