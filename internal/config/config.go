// Package config handles configuration loading and agame home resolution.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// ServerConfig locates the remote game service.
type ServerConfig struct {
	APIBase     string `yaml:"api_base"`
	ContentBase string `yaml:"content_base"`
	CSRFCookie  string `yaml:"csrf_cookie"` // cookie carrying the anti-forgery token
}

// DisplayConfig controls terminal rendering.
type DisplayConfig struct {
	Loading string `yaml:"loading"` // shown before ui.json has arrived
	Color   string `yaml:"color"`   // "auto" | "always" | "never"
}

// Config is the root client configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Display DisplayConfig `yaml:"display"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			APIBase:     "https://documentbrain.com/agame/api",
			ContentBase: "https://documentbrain.com/agame/content",
			CSRFCookie:  "agame_csrf",
		},
		Display: DisplayConfig{
			Loading: "Loading...",
			Color:   "auto",
		},
	}
}

// Load reads config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if srv, ok := raw["server"].(map[string]any); ok {
		if v, ok := srv["api_base"].(string); ok && v != "" {
			cfg.Server.APIBase = strings.TrimRight(v, "/")
		}
		if v, ok := srv["content_base"].(string); ok && v != "" {
			cfg.Server.ContentBase = strings.TrimRight(v, "/")
		}
		if v, ok := srv["csrf_cookie"].(string); ok && v != "" {
			cfg.Server.CSRFCookie = v
		}
	}

	if disp, ok := raw["display"].(map[string]any); ok {
		if v, ok := disp["loading"].(string); ok {
			cfg.Display.Loading = v
		}
		if v, ok := disp["color"].(string); ok && v != "" {
			cfg.Display.Color = v
		}
	}

	return cfg, nil
}

// ---------------------------------------------------------------------------
// Home resolution
// ---------------------------------------------------------------------------

// ResolveHome returns the agame home path and where it came from.
// Priority: override (the --home flag) → AGAME_HOME env → ~/.agame.
// source is one of "flag", "env" or "default". A leading ~/ and environment
// variables are expanded in both overrides.
func ResolveHome(override string) (path, source string) {
	for _, cand := range []struct{ value, source string }{
		{override, "flag"},
		{os.Getenv("AGAME_HOME"), "env"},
	} {
		if cand.value == "" {
			continue
		}
		if p, err := expandPath(cand.value); err == nil {
			return p, cand.source
		}
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".agame"), "default"
}

// GetHome returns the resolved home path.
func GetHome(override string) string {
	path, _ := ResolveHome(override)
	return path
}

// ConfigPath returns the per-home config file path.
func ConfigPath(home string) string { return filepath.Join(home, "config.yaml") }

// CookiesPath returns the per-home cookie database path.
func CookiesPath(home string) string { return filepath.Join(home, "cookies.db") }

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}
