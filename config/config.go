// Package config resolves the warehouse endpoint from environment
// variables and an optional per-user JSON config file.
//
// Environment variables win over the file, per field:
//
//	DATABRICKS_HOST       (fallback DATABRICKS_SERVER_HOSTNAME)
//	DATABRICKS_HTTP_PATH
//
// The file lives at ~/.databricks/config.json and uses the keys
// "server_hostname" and "http_path". A missing file is fine; an
// unreadable or malformed one is reported and otherwise ignored.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

const (
	keyHost = "server_hostname"
	keyPath = "http_path"
)

// Endpoint identifies the warehouse queries run against. Fields may be
// empty; operations that need a missing field fail at that point rather
// than at load time.
type Endpoint struct {
	Host     string
	HTTPPath string
}

// Config is the resolved endpoint plus everything else found in the
// config file, kept around for the status command.
type Config struct {
	Endpoint
	settings map[string]string
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".databricks", "config.json")
}

// Load resolves configuration from the environment and the default
// config file. Warnings (e.g. a malformed file) go to warn.
func Load(warn io.Writer) Config {
	return LoadFrom(DefaultPath(), warn)
}

// LoadFrom is Load with an explicit file path.
func LoadFrom(path string, warn io.Writer) Config {
	v := viper.New()
	_ = v.BindEnv(keyHost, "DATABRICKS_HOST", "DATABRICKS_SERVER_HOSTNAME")
	_ = v.BindEnv(keyPath, "DATABRICKS_HTTP_PATH")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				fmt.Fprintf(warn, "Error loading config file: %v\n", err)
			}
		}
	}

	cfg := Config{
		Endpoint: Endpoint{
			Host:     v.GetString(keyHost),
			HTTPPath: v.GetString(keyPath),
		},
		settings: make(map[string]string),
	}
	for key, val := range v.AllSettings() {
		cfg.settings[key] = fmt.Sprint(val)
	}
	cfg.settings[keyHost] = cfg.Host
	cfg.settings[keyPath] = cfg.HTTPPath
	return cfg
}

// Describe writes the resolved configuration to w, one key per line,
// masking values whose key suggests a credential.
func (c Config) Describe(w io.Writer) {
	keys := make([]string, 0, len(c.settings))
	for k := range c.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		val := c.settings[k]
		switch {
		case val == "":
			val = "(unset)"
		case sensitiveKey(k):
			val = "***"
		}
		fmt.Fprintf(w, "  %s: %s\n", k, val)
	}
}

func sensitiveKey(k string) bool {
	k = strings.ToLower(k)
	return strings.Contains(k, "token") ||
		strings.Contains(k, "secret") ||
		strings.Contains(k, "password")
}
