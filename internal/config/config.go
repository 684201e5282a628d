// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all addressbook configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Pages   Pages   `yaml:"pages"`
	Display Display `yaml:"display"`
	Logging Logging `yaml:"logging"`
}

// Storage holds where books are kept.
type Storage struct {
	Dir  string `yaml:"dir"`
	Book string `yaml:"book"` // File name without extension
}

// Pages holds pagination settings.
type Pages struct {
	Size           int  `yaml:"size"`
	IncludePartial bool `yaml:"include_partial"` // Yield the trailing short page
}

// Display holds output settings.
type Display struct {
	Plain bool `yaml:"plain"` // Never style output or start the pager
}

// Logging holds structured logging settings.
type Logging struct {
	Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `yaml:"format"` // "text" | "json"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			Dir:  ".addressbook/books",
			Book: "contacts",
		},
		Pages: Pages{
			Size: 2,
		},
		Logging: Logging{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	layer, err := loadLayer(path)
	if err != nil {
		return nil, err
	}
	if layer != nil {
		cfg.merge(layer)
	}
	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Storage.Dir == "" {
		return errors.New("config: storage.dir cannot be empty")
	}
	if c.Storage.Book == "" {
		return errors.New("config: storage.book cannot be empty")
	}
	if strings.ContainsAny(c.Storage.Book, `/\`) || c.Storage.Book == "." || c.Storage.Book == ".." {
		return fmt.Errorf("config: storage.book must be a plain file name, got %q", c.Storage.Book)
	}
	if c.Pages.Size < 1 {
		return fmt.Errorf("config: pages.size must be at least 1, got %d", c.Pages.Size)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
		// valid
	default:
		return fmt.Errorf("config: logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
		// valid
	default:
		return fmt.Errorf("config: logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ADDRESSBOOK_DIR, ADDRESSBOOK_BOOK, ADDRESSBOOK_PAGE_SIZE,
// ADDRESSBOOK_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ADDRESSBOOK_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("ADDRESSBOOK_BOOK"); v != "" {
		c.Storage.Book = v
	}
	if v := os.Getenv("ADDRESSBOOK_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid ADDRESSBOOK_PAGE_SIZE %q: %w", v, err)
		}
		c.Pages.Size = n
	}
	if v := os.Getenv("ADDRESSBOOK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage *rawStorage `yaml:"storage"`
	Pages   *rawPages   `yaml:"pages"`
	Display *rawDisplay `yaml:"display"`
	Logging *rawLogging `yaml:"logging"`
}

type rawStorage struct {
	Dir  *string `yaml:"dir"`
	Book *string `yaml:"book"`
}

type rawPages struct {
	Size           *int  `yaml:"size"`
	IncludePartial *bool `yaml:"include_partial"`
}

type rawDisplay struct {
	Plain *bool `yaml:"plain"`
}

type rawLogging struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if s := layer.Storage; s != nil {
		if s.Dir != nil {
			c.Storage.Dir = *s.Dir
		}
		if s.Book != nil {
			c.Storage.Book = *s.Book
		}
	}
	if p := layer.Pages; p != nil {
		if p.Size != nil {
			c.Pages.Size = *p.Size
		}
		if p.IncludePartial != nil {
			c.Pages.IncludePartial = *p.IncludePartial
		}
	}
	if d := layer.Display; d != nil && d.Plain != nil {
		c.Display.Plain = *d.Plain
	}
	if l := layer.Logging; l != nil {
		if l.Level != nil {
			c.Logging.Level = *l.Level
		}
		if l.Format != nil {
			c.Logging.Format = *l.Format
		}
	}
}
