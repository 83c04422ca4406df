package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// The default layer ships with the binary. Its key set is the schema:
// override keys that don't appear here are discarded on load.
//
//go:embed default_config.json
var defaultJSON []byte

// Config is a two-level (section -> key -> value) configuration store.
// Built-in defaults are overlaid with a user config file. Safe for
// concurrent use.
type Config struct {
	mu       sync.RWMutex
	defaults map[string]map[string]any
	values   map[string]map[string]any
	userPath string
}

// Load builds a Config from the embedded defaults plus the user override
// file at userPath. A missing user file is normal (first run); a corrupt
// one is logged and ignored.
func Load(userPath string) (*Config, error) {
	var defaults map[string]map[string]any
	if err := json.Unmarshal(defaultJSON, &defaults); err != nil {
		return nil, fmt.Errorf("parse default config: %w", err)
	}

	c := &Config{
		defaults: defaults,
		values:   copyLayers(defaults),
		userPath: userPath,
	}

	data, err := os.ReadFile(userPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("config: cannot read %s: %v (using defaults)", userPath, err)
		}
		return c, nil
	}

	var overlay map[string]map[string]any
	if err := json.Unmarshal(data, &overlay); err != nil {
		log.Printf("config: %s is corrupt: %v (using defaults)", userPath, err)
		return c, nil
	}
	c.merge(overlay)
	return c, nil
}

// DefaultUserPath returns the per-user config file path.
func DefaultUserPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "nseye", "config.json"), nil
}

// merge copies overlay values into c.values, dropping keys the default
// schema doesn't know about.
func (c *Config) merge(overlay map[string]map[string]any) {
	for section, keys := range overlay {
		base, ok := c.values[section]
		if !ok {
			log.Printf("config: unknown section %q in user config, ignoring", section)
			continue
		}
		for key, value := range keys {
			if _, ok := base[key]; !ok {
				log.Printf("config: unknown key %q.%q in user config, ignoring", section, key)
				continue
			}
			base[key] = value
		}
	}
}

// Get returns the value at [section][key], or fallback if absent.
func (c *Config) Get(section, key string, fallback any) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if keys, ok := c.values[section]; ok {
		if v, ok := keys[key]; ok {
			return v
		}
	}
	return fallback
}

// GetInt returns an integer value. JSON numbers decode as float64, so both
// are accepted.
func (c *Config) GetInt(section, key string, fallback int) int {
	switch v := c.Get(section, key, nil).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// GetFloat returns a float value.
func (c *Config) GetFloat(section, key string, fallback float64) float64 {
	switch v := c.Get(section, key, nil).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}

// GetBool returns a boolean value.
func (c *Config) GetBool(section, key string, fallback bool) bool {
	if v, ok := c.Get(section, key, nil).(bool); ok {
		return v
	}
	return fallback
}

// GetString returns a string value.
func (c *Config) GetString(section, key, fallback string) string {
	if v, ok := c.Get(section, key, nil).(string); ok {
		return v
	}
	return fallback
}

// Set updates a value in memory. Call Save to persist.
func (c *Config) Set(section, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[section]; !ok {
		c.values[section] = make(map[string]any)
	}
	c.values[section][key] = value
}

// Section returns a copy of one config section.
func (c *Config) Section(section string) map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]any, len(c.values[section]))
	for k, v := range c.values[section] {
		out[k] = v
	}
	return out
}

// Save writes the current config to the user config file.
func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked()
}

func (c *Config) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(c.userPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(c.userPath, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ResetToDefaults restores the factory defaults and persists them.
func (c *Config) ResetToDefaults() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = copyLayers(c.defaults)
	return c.saveLocked()
}

func copyLayers(src map[string]map[string]any) map[string]map[string]any {
	dst := make(map[string]map[string]any, len(src))
	for section, keys := range src {
		m := make(map[string]any, len(keys))
		for k, v := range keys {
			m[k] = v
		}
		dst[section] = m
	}
	return dst
}
