package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendS3     = "s3"
)

// S3Config locates the contacts object in an S3-compatible store.
type S3Config struct {
	Bucket string `json:"bucket,omitempty"`
	Key    string `json:"key,omitempty"`
	Region string `json:"region,omitempty"`

	// Endpoint overrides the service URL (MinIO, LocalStack). Path-style
	// addressing is used when set.
	Endpoint string `json:"endpoint,omitempty"`

	// AccessKey/SecretKey are optional static credentials. When empty the
	// default AWS credential chain is used.
	AccessKey string `json:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
}

// StorageConfig selects where the contact collection is persisted.
type StorageConfig struct {
	// Backend is "sqlite" (default), "file" or "s3"
	Backend string `json:"backend,omitempty"`

	// FileName is the JSON document used by the file backend, relative to the base dir
	FileName string `json:"file_name,omitempty"`

	S3 S3Config `json:"s3"`
}

// AuthConfig controls sign-in for the web UI.
type AuthConfig struct {
	// Required gates every contacts route behind a session cookie
	Required bool `json:"required,omitempty"`

	// Secret signs session tokens. Must be set when Required is true.
	Secret string `json:"secret,omitempty"`

	// TokenTTLHours is the session lifetime
	TokenTTLHours int `json:"token_ttl_hours,omitempty"`
}

// WebConfig is the listen address of the web UI.
type WebConfig struct {
	Bind string `json:"bind,omitempty"`
	Port int    `json:"port,omitempty"`
}

// Config holds application configuration.
type Config struct {
	// PageSize is the number of contacts per page
	PageSize int `json:"page_size"`

	// SaveDelayMS is the pause before a web form save completes.
	// A negative value disables it.
	SaveDelayMS int `json:"save_delay_ms"`

	// LogLevel is debug, info, warn or error
	LogLevel string `json:"log_level,omitempty"`

	Storage StorageConfig `json:"storage"`
	Auth    AuthConfig    `json:"auth"`
	Web     WebConfig     `json:"web"`

	// AllowedPaths is an allowlist of directories for import/export operations.
	// Paths outside ~/.outreach/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for import/export.
	// When true, any directory is allowed (but symlink and extension checks still apply).
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of type names to disable entirely.
	// Known types: "contact". Unknown type names are logged as warnings.
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PageSize:    25,
		SaveDelayMS: 400,
		LogLevel:    "info",
		Storage: StorageConfig{
			Backend:  BackendSQLite,
			FileName: "outreach_contacts.json",
			S3: S3Config{
				Key:    "outreach_contacts.json",
				Region: "us-east-1",
			},
		},
		Auth: AuthConfig{
			TokenTTLHours: 24 * 7,
		},
		Web: WebConfig{
			Bind: "127.0.0.1",
			Port: 8790,
		},
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.outreach.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.outreach) and repo (.outreach) directories.
// Repo config is found by walking upward from startDir to find the nearest .outreach/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repoConfigPath := FindRepoConfig(startDir)
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .outreach/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".outreach", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.PageSize = pickInt(overlay.PageSize, base.PageSize)
	result.SaveDelayMS = pickInt(overlay.SaveDelayMS, base.SaveDelayMS)
	result.LogLevel = pickString(overlay.LogLevel, base.LogLevel)
	result.DBMaxOpenConns = pickInt(overlay.DBMaxOpenConns, base.DBMaxOpenConns)
	result.DBMaxIdleConns = pickInt(overlay.DBMaxIdleConns, base.DBMaxIdleConns)

	result.Storage = StorageConfig{
		Backend:  pickString(overlay.Storage.Backend, base.Storage.Backend),
		FileName: pickString(overlay.Storage.FileName, base.Storage.FileName),
		S3: S3Config{
			Bucket:    pickString(overlay.Storage.S3.Bucket, base.Storage.S3.Bucket),
			Key:       pickString(overlay.Storage.S3.Key, base.Storage.S3.Key),
			Region:    pickString(overlay.Storage.S3.Region, base.Storage.S3.Region),
			Endpoint:  pickString(overlay.Storage.S3.Endpoint, base.Storage.S3.Endpoint),
			AccessKey: pickString(overlay.Storage.S3.AccessKey, base.Storage.S3.AccessKey),
			SecretKey: pickString(overlay.Storage.S3.SecretKey, base.Storage.S3.SecretKey),
		},
	}

	result.Auth = AuthConfig{
		Required:      base.Auth.Required || overlay.Auth.Required,
		Secret:        pickString(overlay.Auth.Secret, base.Auth.Secret),
		TokenTTLHours: pickInt(overlay.Auth.TokenTTLHours, base.Auth.TokenTTLHours),
	}

	result.Web = WebConfig{
		Bind: pickString(overlay.Web.Bind, base.Web.Bind),
		Port: pickInt(overlay.Web.Port, base.Web.Port),
	}

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

func pickInt(overlay, base int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

func pickString(overlay, base string) string {
	if s := strings.TrimSpace(overlay); s != "" {
		return s
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
