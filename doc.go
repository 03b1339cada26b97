// Package gitbchq posts git commits to Basecamp classic.
//
// gitbchq is run right after a commit. It lists the messages and todo items
// of a Basecamp project, lets you pick one, optionally uploads the
// HEAD~1..HEAD patch as an attachment, and posts the last commit log as a
// Textile-formatted comment. A todo item can then be marked complete.
//
// # Quick Start
//
//	# Point the repository at your Basecamp account
//	git config basecamp.apikey    0123456789abcdef
//	git config basecamp.baseurl   https://example.basecamphq.com/
//	git config basecamp.projectid 1234567
//
//	# Commit, then post
//	git commit -am "Fix login redirect"
//	gitbchq
//
// # Module Structure
//
// The module is organized into these packages:
//
//   - cmd/gitbchq: Command-line interface
//   - internal/workflow: The interactive session, one state at a time
//   - internal/basecamp: HTTP client and typed API calls
//   - internal/git: Git operations through the git executable
//   - internal/textile: ANSI colour to Textile conversion
//   - internal/prompt: Terminal questions and answers
//   - internal/config: Configuration from git config, .env, environment and flags
//   - internal/logger: Logging facilities
//   - internal/errors: Error handling utilities
//
// # Implementation Notes
//
// gitbchq uses the command-line Git executable rather than a Go Git library to ensure
// compatibility with all Git features and repository configurations. Commands are
// executed through an abstracted interface that can be replaced for testing.
//
// Every request is sent once. A patch uploaded before a failed comment post
// stays on the server unattached.
package gitbchq
