// Package config provides configuration handling for gitbchq.
//
// # Configuration Sources
//
// Process settings (repository path, logging, timeout) are loaded with the
// following precedence:
//
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Default values (lowest priority)
//
// Basecamp account settings live in the repository's git configuration
// and can be overridden per checkout or per shell:
//
// 1. Environment variables (highest priority)
// 2. A .env file in the repository root
// 3. git config (lowest priority)
//
// # Git Configuration
//
//	git config basecamp.apikey    <api key>
//	git config basecamp.baseurl   https://example.basecamphq.com/
//	git config basecamp.projectid 1234567
//	git config basecamp.verifytls true   # optional, off by default
//
// # Environment Variables
//
//	BASECAMP_APIKEY      overrides basecamp.apikey
//	BASECAMP_BASEURL     overrides basecamp.baseurl
//	BASECAMP_PROJECTID   overrides basecamp.projectid
//	BASECAMP_VERIFYTLS   overrides basecamp.verifytls
//	REPO_PATH            Path to repository (default: current directory)
//	GITBCHQ_DEBUG        Enable debug logging (default: false)
//	GITBCHQ_LOG_FILE     Path to log file
//	GITBCHQ_VERBOSE      Show internal warnings (default: true)
//	GITBCHQ_TIMEOUT      Request timeout, "45s" or seconds (default: 30s)
//
// # Usage
//
//	cfg := config.New()
//	cfg.LoadFromEnvironment()
//	cfg.SetupFlags(cmd.Flags())
//	// ... parse flags ...
//	if err := cfg.Finalize(); err != nil {
//	    // Handle error
//	}
//	if err := cfg.LoadBasecamp(ctx, repo); err != nil {
//	    // Handle error
//	}
package config
