package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gitbchq/gitbchq/internal/config"
	gitbchqErrors "github.com/gitbchq/gitbchq/internal/errors"
)

// Version information - injected at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	versionInfo := config.VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	app := NewDefaultApp(versionInfo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, app, os.Args[1:])
	stop()

	app.exit(code)
}

// newRootCommand builds the gitbchq command. The session takes no
// arguments; flags only adjust the environment it runs in.
func newRootCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitbchq",
		Short: "Post the last commit to a Basecamp message or todo item",
		Long: `gitbchq lists the messages and todo items of a Basecamp project, lets you
pick one, optionally uploads the HEAD~1..HEAD patch, and posts the last
commit log as a comment. Todo items can be marked complete afterwards.

Account settings come from git config (basecamp.apikey, basecamp.baseurl,
basecamp.projectid, basecamp.verifytls), a .env file in the repository
root, or BASECAMP_* environment variables, in increasing precedence.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Config.ApplyFlags(cmd.Flags()); err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return gitbchqErrors.Wrap(gitbchqErrors.ErrInvalidFlag, err.Error())
	})
	app.Config.SetupFlags(cmd.Flags())

	return cmd
}

// execute runs the root command with args and returns the process exit code.
func execute(ctx context.Context, app *App, args []string) int {
	cmd := newRootCommand(app)
	cmd.SetArgs(args)
	cmd.SetIn(app.Stdin)
	cmd.SetOut(app.Stdout)
	cmd.SetErr(app.Stderr)

	err := cmd.ExecuteContext(ctx)
	if closeErr := app.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		if gitbchqErrors.Is(err, context.Canceled) {
			_, _ = fmt.Fprintln(app.Stderr, "\nInterrupted, nothing more will be sent")
		} else {
			_, _ = fmt.Fprintf(app.Stderr, "❌ Error: %v\n", err)
		}
	}
	return gitbchqErrors.ExitCode(err)
}
