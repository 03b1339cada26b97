package config

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	gitbchqErrors "github.com/gitbchq/gitbchq/internal/errors"
)

const (
	// DefaultTimeout bounds every HTTP request made to the API.
	DefaultTimeout = 30 * time.Second

	// DotEnvFile is read from the repository root when present.
	DotEnvFile = ".env"
)

// Keys read from the repository's git configuration store.
const (
	GitKeyAPIKey    = "basecamp.apikey"
	GitKeyBaseURL   = "basecamp.baseurl"
	GitKeyProjectID = "basecamp.projectid"
	GitKeyVerifyTLS = "basecamp.verifytls"
)

// Environment variables that override the git configuration.
const (
	EnvAPIKey    = "BASECAMP_APIKEY"
	EnvBaseURL   = "BASECAMP_BASEURL"
	EnvProjectID = "BASECAMP_PROJECTID"
	EnvVerifyTLS = "BASECAMP_VERIFYTLS"
)

// GitConfigReader reads a single key from the git configuration store.
// An unset key yields an empty string and no error.
type GitConfigReader interface {
	ConfigValue(ctx context.Context, key string) (string, error)
}

// Config holds all gitbchq settings.
type Config struct {
	// Basecamp account

	// APIKey is sent as the basic-auth user name with an empty password.
	APIKey string

	// BaseURL prefixes every route, e.g. https://example.basecamphq.com/
	BaseURL string

	// ProjectID scopes the message and todo list listings.
	ProjectID int

	// VerifyTLS enables TLS peer verification. Off by default.
	VerifyTLS bool

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Repository

	// RepoPath is the working tree to read commits from.
	// If empty, the current working directory is used.
	RepoPath string

	// Output

	// Verbose shows internal warnings on the terminal.
	Verbose bool

	// Debug enables writing the debug log file.
	Debug bool

	// LogFile is where debug logs go. Defaults to an XDG data path.
	LogFile string

	// Special flags

	// Version prints version information and exits.
	Version bool

	// VersionInfo is injected at build time.
	VersionInfo VersionInfo
}

// VersionInfo contains build-time version metadata.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		Timeout: DefaultTimeout,
		Verbose: true,
		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// LoadFromEnvironment updates the process-level settings from environment
// variables. Basecamp settings are handled by LoadBasecamp.
func (c *Config) LoadFromEnvironment() {
	c.RepoPath = getEnvString("REPO_PATH", c.RepoPath)
	c.Verbose = getEnvBool("GITBCHQ_VERBOSE", c.Verbose)
	c.Debug = getEnvBool("GITBCHQ_DEBUG", c.Debug)
	c.LogFile = getEnvString("GITBCHQ_LOG_FILE", c.LogFile)
	c.Timeout = getEnvDuration("GITBCHQ_TIMEOUT", c.Timeout)
}

// SetupFlags registers the command-line flags that override config values
func (c *Config) SetupFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.RepoPath, "repo", c.RepoPath, "Path to repository (default: current directory)")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Path to log file (default: ~/.local/share/gitbchq/logs/gitbchq-{repo-hash}.log)")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Timeout for each request to Basecamp")
	fs.BoolVar(&c.Version, "version", c.Version, "Print version information and exit")
	fs.Bool("quiet", !c.Verbose, "Hide internal warnings")
}

// ApplyFlags folds inverted flags back into the config after parsing.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	if fs.Changed("quiet") {
		quiet, err := fs.GetBool("quiet")
		if err != nil {
			return gitbchqErrors.NewConfigError("quiet", nil, gitbchqErrors.Wrap(gitbchqErrors.ErrInvalidFlag, err.Error()))
		}
		c.Verbose = !quiet
	}
	return nil
}

// Finalize validates and finalizes the process-level configuration
func (c *Config) Finalize() error {
	if c.Timeout <= 0 {
		return gitbchqErrors.NewConfigError("timeout", c.Timeout,
			gitbchqErrors.Wrap(gitbchqErrors.ErrInvalidConfiguration, "must be greater than 0"))
	}

	if c.RepoPath == "" {
		var err error
		c.RepoPath, err = os.Getwd()
		if err != nil {
			return gitbchqErrors.NewConfigError("repoPath", "",
				gitbchqErrors.Wrap(gitbchqErrors.ErrInvalidConfiguration, fmt.Sprintf("failed to get current directory: %v", err)))
		}
	}

	absRepoPath, err := filepath.Abs(c.RepoPath)
	if err != nil {
		return gitbchqErrors.NewConfigError("repoPath", c.RepoPath,
			gitbchqErrors.Wrap(gitbchqErrors.ErrInvalidConfiguration, fmt.Sprintf("failed to resolve absolute path: %v", err)))
	}
	c.RepoPath = absRepoPath

	if c.LogFile == "" {
		// Follow XDG Base Directory Specification
		logDir := os.Getenv("XDG_DATA_HOME")
		if logDir == "" {
			homeDir, err := os.UserHomeDir()
			if err == nil {
				logDir = filepath.Join(homeDir, ".local", "share")
			} else {
				logDir = os.TempDir()
			}
		}

		repoHash := fmt.Sprintf("%x", sha256OfString(c.RepoPath)[:8])
		c.LogFile = filepath.Join(logDir, "gitbchq", "logs", fmt.Sprintf("gitbchq-%s.log", repoHash))
	}

	return nil
}

// LoadBasecamp reads the account settings. The git configuration store is
// the base layer, a .env file in the repository root overrides it, and
// process environment variables override both.
func (c *Config) LoadBasecamp(ctx context.Context, reader GitConfigReader) error {
	values := map[string]string{}

	for _, key := range []string{GitKeyAPIKey, GitKeyBaseURL, GitKeyProjectID, GitKeyVerifyTLS} {
		value, err := reader.ConfigValue(ctx, key)
		if err != nil {
			return gitbchqErrors.NewConfigError(key, nil,
				gitbchqErrors.Errorf("%w: %w", gitbchqErrors.ErrInvalidConfiguration, err))
		}
		if value != "" {
			values[key] = value
		}
	}

	dotEnv, err := c.readDotEnv()
	if err != nil {
		return err
	}

	overrides := map[string]string{
		EnvAPIKey:    GitKeyAPIKey,
		EnvBaseURL:   GitKeyBaseURL,
		EnvProjectID: GitKeyProjectID,
		EnvVerifyTLS: GitKeyVerifyTLS,
	}
	for env, key := range overrides {
		if value, ok := dotEnv[env]; ok && value != "" {
			values[key] = value
		}
		if value, ok := os.LookupEnv(env); ok && value != "" {
			values[key] = value
		}
	}

	return c.applyBasecamp(values)
}

// readDotEnv parses the repository's .env file without touching the
// process environment. A missing file is not an error.
func (c *Config) readDotEnv() (map[string]string, error) {
	path := filepath.Join(c.RepoPath, DotEnvFile)
	values, err := godotenv.Read(path)
	if err != nil {
		if gitbchqErrors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, gitbchqErrors.NewConfigError("dotenv", path,
			gitbchqErrors.Errorf("%w: %w", gitbchqErrors.ErrInvalidConfiguration, err))
	}
	return values, nil
}

// applyBasecamp validates the merged account settings and stores them.
func (c *Config) applyBasecamp(values map[string]string) error {
	apiKey := strings.TrimSpace(values[GitKeyAPIKey])
	if apiKey == "" {
		return gitbchqErrors.NewConfigError(GitKeyAPIKey, nil,
			gitbchqErrors.Wrap(gitbchqErrors.ErrInvalidConfiguration, "not set (git config "+GitKeyAPIKey+" <key>)"))
	}

	baseURL := strings.TrimSpace(values[GitKeyBaseURL])
	parsed, err := url.Parse(baseURL)
	if baseURL == "" || err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return gitbchqErrors.NewConfigError(GitKeyBaseURL, baseURL,
			gitbchqErrors.Wrap(gitbchqErrors.ErrInvalidConfiguration, "must be an absolute http(s) URL"))
	}

	rawProjectID := strings.TrimSpace(values[GitKeyProjectID])
	projectID, err := strconv.Atoi(rawProjectID)
	if err != nil || projectID < 0 {
		return gitbchqErrors.NewConfigError(GitKeyProjectID, rawProjectID,
			gitbchqErrors.Wrap(gitbchqErrors.ErrInvalidConfiguration, "must be a non-negative integer"))
	}

	verifyTLS := c.VerifyTLS
	if raw, ok := values[GitKeyVerifyTLS]; ok {
		verifyTLS, ok = parseBool(raw)
		if !ok {
			return gitbchqErrors.NewConfigError(GitKeyVerifyTLS, raw,
				gitbchqErrors.Wrap(gitbchqErrors.ErrInvalidConfiguration, "must be true or false"))
		}
	}

	c.APIKey = apiKey
	c.BaseURL = baseURL
	c.ProjectID = projectID
	c.VerifyTLS = verifyTLS
	return nil
}

// getEnvString returns an environment variable string or a default value
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvDuration accepts either a Go duration ("45s") or a number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

// getEnvBool returns an environment variable as bool or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, ok := parseBool(valueStr); ok {
			return value
		}
	}
	return defaultValue
}

// parseBool understands the spellings git config and shells commonly use.
func parseBool(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	return false, false
}

// sha256OfString returns the SHA256 hash of a string
func sha256OfString(input string) []byte {
	hash := sha256.Sum256([]byte(input))
	return hash[:]
}
