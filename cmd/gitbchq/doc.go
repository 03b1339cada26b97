// Package main implements gitbchq, which posts your last commit to Basecamp.
//
// gitbchq is run from inside a git repository right after committing. It
// asks whether the commit concerns a message or a todo item, lists the
// candidates from the configured Basecamp project, and posts the commit log
// as a comment on the one you pick. Terminal colours in the log are turned
// into Textile colour spans so the diffstat keeps its reds and greens.
//
// # Basic Usage
//
//	gitbchq                 # Start an interactive session in the current repository
//	gitbchq --repo ../api   # Use another repository
//	gitbchq --debug         # Write a debug log
//
// # Setup
//
//	git config basecamp.apikey   0123456789abcdef
//	git config basecamp.baseurl  https://example.basecamphq.com/
//	git config basecamp.projectid 1234567
//
// The same values can be given as BASECAMP_APIKEY, BASECAMP_BASEURL and
// BASECAMP_PROJECTID, either exported or in a .env file at the repository
// root. TLS certificates are not verified unless basecamp.verifytls is true.
//
// # Configuration Options
//
//	--repo       Path to repository (env: REPO_PATH)
//	--timeout    Timeout for each request to Basecamp, default 30s (env: GITBCHQ_TIMEOUT)
//	--quiet      Hide internal warnings (env: GITBCHQ_VERBOSE=false)
//	--debug      Enable detailed logging (env: GITBCHQ_DEBUG=true)
//	--log-file   Path to the debug log (env: GITBCHQ_LOG_FILE)
//	--version    Print version information and exit
//
// # Session
//
//  1. Choose what to update: a message, a todo item, or nothing.
//
//  2. Pick the message, or the todo list and then the item, by number.
//
//  3. Optionally upload the HEAD~1..HEAD patch. It is attached to the
//     comment as {parent}-{head}.patch.
//
//  4. Type an optional note, ending it with a line containing only ".".
//
//  5. Check the preview and post. For todo items you are then asked whether
//     to mark the item complete.
//
// # Exit Codes
//
//	0  comment posted, or nothing to do
//	1  a request, git command or prompt failed
//	2  configuration or flag error
//	3  the chosen listing was empty
package main
