package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d, want 8080", cfg.Server.HTTPPort)
	}
	if cfg.Classifier.Endpoint != "https://scam-detection-iitkgp.onrender.com/predict" {
		t.Errorf("Classifier.Endpoint = %q", cfg.Classifier.Endpoint)
	}
	if cfg.VirusTotal.BaseURL != "https://www.virustotal.com/api/v3" {
		t.Errorf("VirusTotal.BaseURL = %q", cfg.VirusTotal.BaseURL)
	}
	if cfg.Analysis.Timeout != 45*time.Second {
		t.Errorf("Analysis.Timeout = %v, want 45s", cfg.Analysis.Timeout)
	}
	if cfg.Reports.Retention != 90*24*time.Hour {
		t.Errorf("Reports.Retention = %v", cfg.Reports.Retention)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  name: elderguard-test
  environment: test
server:
  http_port: 9999
classifier:
  endpoint: http://classifier.local/predict
analysis:
  max_concurrent_scans: 3
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("VIRUSTOTAL_API_KEY", "vt-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Name != "elderguard-test" {
		t.Errorf("App.Name = %q", cfg.App.Name)
	}
	if cfg.Server.HTTPPort != 9999 {
		t.Errorf("HTTPPort = %d, want 9999", cfg.Server.HTTPPort)
	}
	if cfg.Classifier.Endpoint != "http://classifier.local/predict" {
		t.Errorf("Classifier.Endpoint = %q", cfg.Classifier.Endpoint)
	}
	if cfg.Analysis.MaxConcurrentScans != 3 {
		t.Errorf("MaxConcurrentScans = %d, want 3", cfg.Analysis.MaxConcurrentScans)
	}
	if cfg.VirusTotal.APIKey != "vt-key" {
		t.Errorf("VirusTotal.APIKey = %q, want vt-key", cfg.VirusTotal.APIKey)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  environment: moon
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for unknown environment")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", DBName: "eg", SSLMode: "disable",
	}
	want := "postgres://u:p@db:5432/eg?sslmode=disable"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
