package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-editorjs"
	"github.com/alnah/go-editorjs/internal/fileutil"
	"github.com/alnah/go-editorjs/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config field")
)

// Field length limits.
const (
	MaxToolNameLength = 64
	MaxURLLength      = 2048 // Browser limit
	MaxStyleLength    = 64   // chroma style name
	MaxPathLength     = 4096
	MaxTools          = 128
	MaxWorkers        = 256
)

// Config holds everything needed to build a registry and render documents.
type Config struct {
	// Tools lists the enabled tools. Empty means every registered tool.
	Tools []string `yaml:"tools"`
	// Clean overrides the registry sanitizer default when set.
	Clean   *bool  `yaml:"clean"`
	BaseURL string `yaml:"baseURL"`
	// Tunes maps a tune to the tools it is restricted to. Tunes absent from
	// the map keep their default applicability.
	Tunes     map[string][]string `yaml:"tunes"`
	Assets    AssetsConfig        `yaml:"assets"`
	Header    HeaderConfig        `yaml:"header"`
	Code      CodeConfig          `yaml:"code"`
	Links     LinksConfig         `yaml:"links"`
	Allowlist AllowlistConfig     `yaml:"allowlist"`
	Entities  EntitiesConfig      `yaml:"entities"`
	Workers   int                 `yaml:"workers"` // 0 = CPU count
}

// AssetsConfig defines script and stylesheet locations.
type AssetsConfig struct {
	Prefix string `yaml:"prefix"` // Prepended to every script path
	Pages  string `yaml:"pages"`  // Directory holding pages/{name}.html
}

// HeaderConfig defines header block options.
type HeaderConfig struct {
	Anchors bool `yaml:"anchors"` // Slug ids on headings
}

// CodeConfig defines code highlighting for code and markdown blocks.
type CodeConfig struct {
	Highlight bool   `yaml:"highlight"`
	Style     string `yaml:"style"` // chroma style (empty = default)
}

// LinksConfig defines link-autocomplete options.
type LinksConfig struct {
	SearchEndpoint string `yaml:"searchEndpoint"`
}

// AllowlistConfig extends the sanitizer allowlist of every render.
type AllowlistConfig struct {
	Tags       []string            `yaml:"tags"`
	Attributes map[string][]string `yaml:"attributes"` // tag (or "*") -> names
}

// EntitiesConfig selects the entity source. DatabaseURL wins over File.
type EntitiesConfig struct {
	File        string `yaml:"file"`        // YAML fixture: kind -> entities
	DatabaseURL string `yaml:"databaseURL"` // PostgreSQL DSN
}

// Validate checks field lengths and values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if len(c.Tools) > MaxTools {
		return fmt.Errorf("%w: tools (%d entries, max %d)", ErrFieldTooLong, len(c.Tools), MaxTools)
	}
	for i, name := range c.Tools {
		field := fmt.Sprintf("tools[%d]", i)
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: %s: empty tool name", ErrInvalidField, field)
		}
		if err := validateFieldLength(field, name, MaxToolNameLength); err != nil {
			return err
		}
	}

	for tune, tools := range c.Tunes {
		if err := validateFieldLength("tunes", tune, MaxToolNameLength); err != nil {
			return err
		}
		for i, name := range tools {
			if err := validateFieldLength(fmt.Sprintf("tunes.%s[%d]", tune, i), name, MaxToolNameLength); err != nil {
				return err
			}
		}
	}

	if err := validateFieldLength("baseURL", c.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: baseURL: %q is not an absolute URL", ErrInvalidField, c.BaseURL)
		}
	}

	if err := validateFieldLength("assets.prefix", c.Assets.Prefix, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.pages", c.Assets.Pages, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("code.style", c.Code.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("links.searchEndpoint", c.Links.SearchEndpoint, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("entities.file", c.Entities.File, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("entities.databaseURL", c.Entities.DatabaseURL, MaxURLLength); err != nil {
		return err
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidField, MaxWorkers, c.Workers)
	}

	for i, tag := range c.Allowlist.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: allowlist.tags[%d]: empty tag", ErrInvalidField, i)
		}
	}
	for tag := range c.Allowlist.Attributes {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: allowlist.attributes: empty tag", ErrInvalidField)
		}
	}

	return nil
}

// ExtraAllowlist converts the allowlist section.
func (c *Config) ExtraAllowlist() (editorjs.Allowlist, error) {
	return editorjs.MergeAllowlist(editorjs.AllowDefaults{}, c.Allowlist.Tags, c.Allowlist.Attributes)
}

// ParsedBaseURL returns the base URL, or nil when unset.
func (c *Config) ParsedBaseURL() (*url.URL, error) {
	if c.BaseURL == "" {
		return nil, nil
	}
	return url.Parse(c.BaseURL)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration with every registered tool enabled
// and no entity source.
func DefaultConfig() *Config {
	return &Config{
		Header: HeaderConfig{Anchors: false},
		Code:   CodeConfig{Highlight: false},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadEntities reads an entity fixture file into a memory store. The file
// maps an entity kind to a list of entities.
func LoadEntities(path string) (*editorjs.MemoryStore, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- fixture path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading entities file: %w", err)
	}

	var fixtures map[string][]editorjs.Entity
	if err := yamlutil.UnmarshalStrict(data, &fixtures); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	store := editorjs.NewMemoryStore()
	for kind, entities := range fixtures {
		for i, e := range entities {
			if e.ID == "" {
				return nil, fmt.Errorf("%w: %s[%d]: missing id", ErrInvalidField, kind, i)
			}
		}
		store.Add(kind, entities...)
	}
	return store, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-editorjs/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-editorjs", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
