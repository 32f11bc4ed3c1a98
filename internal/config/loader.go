package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".contactfinder"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .contactfinder configuration file.
// Every field is optional; unset fields leave the corresponding Config
// value untouched.
type File struct {
	// DirectoryURL overrides the member directory page.
	DirectoryURL string `yaml:"directory_url,omitempty"`

	// ContactHints replaces the default contact-hint keyword list.
	ContactHints []string `yaml:"contact_hints,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"user_agent,omitempty"`

	// Timeout overrides the per-request timeout. Accepts Go duration
	// syntax ("30s") or a bare number of seconds.
	Timeout Duration `yaml:"timeout,omitempty"`

	// Delay overrides the inter-request delay.
	Delay Duration `yaml:"delay,omitempty"`

	// MaxContactPages overrides the per-site contact-page cap.
	// Use -1 in the file to explicitly request home pages only; it is
	// normalized to 0 when applied.
	MaxContactPages int `yaml:"max_contact_pages,omitempty"`

	// OutputCSV overrides the CSV output path.
	OutputCSV string `yaml:"output_csv,omitempty"`

	// ServeAddr overrides the control server listen address.
	ServeAddr string `yaml:"serve_addr,omitempty"`
}

// LoadConfigFile loads crawl settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// should handle this error based on whether the path was explicitly
// specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .contactfinder in the current directory
//  3. Look for .contactfinder in the user's home directory
//
// Returns the path to the configuration file if found, or empty string
// if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply copies the file's non-zero settings onto the config.
// CLI flags are applied after this, so flags always win over the file.
func (cf *File) Apply(c *Config) {
	if cf.DirectoryURL != "" {
		c.DirectoryURL = cf.DirectoryURL
	}
	if len(cf.ContactHints) > 0 {
		c.ContactHints = cf.ContactHints
	}
	if cf.UserAgent != "" {
		c.UserAgent = cf.UserAgent
	}
	if !cf.Timeout.IsZero() {
		c.Timeout = cf.Timeout.Duration
	}
	if !cf.Delay.IsZero() {
		c.Delay = cf.Delay.Duration
	}
	if cf.MaxContactPages != 0 {
		c.MaxContactPages = cf.MaxContactPages
		if c.MaxContactPages < 0 {
			c.MaxContactPages = 0
		}
	}
	if cf.OutputCSV != "" {
		c.OutputCSV = cf.OutputCSV
	}
	if cf.ServeAddr != "" {
		c.ServeAddr = cf.ServeAddr
	}
}
