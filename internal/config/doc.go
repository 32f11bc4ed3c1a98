// Package config provides configuration structures and utilities for
// ContactFinder. It defines crawl settings (directory URL, contact-hint
// keywords, timing), output destinations, and the optional YAML
// configuration file loader.
package config
