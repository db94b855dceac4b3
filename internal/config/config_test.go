package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"USERSTREAM_NATS_URL", "USERSTREAM_METRICS_ADDR"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relay.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NATS.URL != "nats://127.0.0.1:4222" {
		t.Errorf("NATS.URL = %q", cfg.NATS.URL)
	}
	if cfg.Stream.Name != "USERSTREAM" || cfg.Stream.SubjectPrefix != "userstream.events" {
		t.Errorf("Stream = %+v", cfg.Stream)
	}
	if cfg.Codec != "json" || cfg.PayloadCodec != "json" || cfg.ID != "nuid" || cfg.LogLevel != "info" {
		t.Errorf("Codec = %q, PayloadCodec = %q, ID = %q, LogLevel = %q", cfg.Codec, cfg.PayloadCodec, cfg.ID, cfg.LogLevel)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
nats:
  url: nats://nats:4222
  subject: feed.user
stream:
  name: EVENTS
  subject_prefix: events
  replicas: 3
  storage: memory
codec: msgpack
payload_codec: stdjson
id: uuid
log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NATS.URL != "nats://nats:4222" || cfg.NATS.Subject != "feed.user" {
		t.Errorf("NATS = %+v", cfg.NATS)
	}
	if cfg.Stream.Replicas != 3 || cfg.Stream.Storage != "memory" {
		t.Errorf("Stream = %+v", cfg.Stream)
	}
	if cfg.Codec != "msgpack" || cfg.PayloadCodec != "stdjson" || cfg.ID != "uuid" {
		t.Errorf("Codec = %q, PayloadCodec = %q, ID = %q", cfg.Codec, cfg.PayloadCodec, cfg.ID)
	}
	if level, err := cfg.Level(); err != nil || level != slog.LevelDebug {
		t.Errorf("Level = %v, %v", level, err)
	}
	if cfg.MetricsAddr != ":9102" {
		t.Errorf("MetricsAddr = %q, want default", cfg.MetricsAddr)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("USERSTREAM_NATS_URL", "nats://env:4222")
	t.Setenv("USERSTREAM_METRICS_ADDR", ":2112")

	cfg, err := Load(writeConfig(t, "nats:\n  url: nats://file:4222\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NATS.URL != "nats://env:4222" {
		t.Errorf("NATS.URL = %q, want env override", cfg.NATS.URL)
	}
	if cfg.MetricsAddr != ":2112" {
		t.Errorf("MetricsAddr = %q, want env override", cfg.MetricsAddr)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "nats: [unclosed")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown codec",
			mutate:  func(c *Config) { c.Codec = "xml" },
			wantErr: "codec:",
		},
		{
			name:    "binary payload codec",
			mutate:  func(c *Config) { c.PayloadCodec = "msgpack" },
			wantErr: "payload_codec:",
		},
		{
			name:    "unknown payload codec",
			mutate:  func(c *Config) { c.PayloadCodec = "xml" },
			wantErr: "payload_codec:",
		},
		{
			name:    "unknown id",
			mutate:  func(c *Config) { c.ID = "ulid" },
			wantErr: "id:",
		},
		{
			name:    "storage",
			mutate:  func(c *Config) { c.Stream.Storage = "disk" },
			wantErr: "stream.storage",
		},
		{
			name:    "replicas",
			mutate:  func(c *Config) { c.Stream.Replicas = 7 },
			wantErr: "stream.replicas",
		},
		{
			name:    "wildcard prefix",
			mutate:  func(c *Config) { c.Stream.SubjectPrefix = "events.>" },
			wantErr: "stream.subject_prefix",
		},
		{
			name:    "overlapping subject",
			mutate:  func(c *Config) { c.NATS.Subject = "userstream.events.raw" },
			wantErr: "nats.subject",
		},
		{
			name:    "log level",
			mutate:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: "log_level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tc.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}
