package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABRICKS_HOST", "")
	t.Setenv("DATABRICKS_SERVER_HOSTNAME", "")
	t.Setenv("DATABRICKS_HTTP_PATH", "")
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABRICKS_HOST", "https://env.cloud.databricks.com")
	path := writeConfigFile(t, `{"server_hostname": "https://file.cloud.databricks.com", "http_path": "/sql/1.0/warehouses/abc"}`)

	cfg := LoadFrom(path, io.Discard)
	if cfg.Host != "https://env.cloud.databricks.com" {
		t.Errorf("env should win over file, got %q", cfg.Host)
	}
	if cfg.HTTPPath != "/sql/1.0/warehouses/abc" {
		t.Errorf("http_path should come from file, got %q", cfg.HTTPPath)
	}
}

func TestLoadFallbackEnvVar(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABRICKS_SERVER_HOSTNAME", "https://alt.cloud.databricks.com")

	cfg := LoadFrom("", io.Discard)
	if cfg.Host != "https://alt.cloud.databricks.com" {
		t.Errorf("expected fallback env var to resolve host, got %q", cfg.Host)
	}
}

func TestLoadFileOnly(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `{"server_hostname": "https://file.cloud.databricks.com", "http_path": "/sql/1.0/warehouses/xyz"}`)

	cfg := LoadFrom(path, io.Discard)
	if cfg.Host != "https://file.cloud.databricks.com" {
		t.Errorf("host: got %q", cfg.Host)
	}
	if cfg.HTTPPath != "/sql/1.0/warehouses/xyz" {
		t.Errorf("http_path: got %q", cfg.HTTPPath)
	}
}

func TestLoadMalformedFileNotFatal(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABRICKS_HOST", "https://env.cloud.databricks.com")
	path := writeConfigFile(t, `{not json`)

	var warn bytes.Buffer
	cfg := LoadFrom(path, &warn)
	if !strings.Contains(warn.String(), "Error loading config file") {
		t.Errorf("expected a warning, got %q", warn.String())
	}
	if cfg.Host != "https://env.cloud.databricks.com" {
		t.Errorf("env resolution should survive a bad file, got %q", cfg.Host)
	}
}

func TestLoadMissingFileSilent(t *testing.T) {
	clearEnv(t)
	var warn bytes.Buffer
	LoadFrom(filepath.Join(t.TempDir(), "nope.json"), &warn)
	if warn.Len() != 0 {
		t.Errorf("missing file should not warn, got %q", warn.String())
	}
}

func TestDescribeMasksAndMarksUnset(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `{"server_hostname": "https://file.cloud.databricks.com", "access_token": "dapi-secret"}`)

	cfg := LoadFrom(path, io.Discard)
	var out bytes.Buffer
	cfg.Describe(&out)

	got := out.String()
	if strings.Contains(got, "dapi-secret") {
		t.Errorf("token not masked:\n%s", got)
	}
	if !strings.Contains(got, "access_token: ***") {
		t.Errorf("expected masked token line:\n%s", got)
	}
	if !strings.Contains(got, "http_path: (unset)") {
		t.Errorf("expected unset marker for http_path:\n%s", got)
	}
	if !strings.Contains(got, "server_hostname: https://file.cloud.databricks.com") {
		t.Errorf("expected hostname line:\n%s", got)
	}
}
