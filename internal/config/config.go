package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bruth/userstream"
	"github.com/bruth/userstream/codec"
	"github.com/bruth/userstream/id"
)

// Config is the top-level YAML structure of the relay.
type Config struct {
	NATS   NATSConf   `yaml:"nats"`
	Stream StreamConf `yaml:"stream"`

	// Codec encodes published records.
	Codec string `yaml:"codec"`

	// PayloadCodec decodes target objects and users. It must read JSON.
	PayloadCodec string `yaml:"payload_codec"`

	ID          string `yaml:"id"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// NATSConf is the connection and the subject raw event messages arrive on.
type NATSConf struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// StreamConf is the JetStream stream decoded records are published to.
type StreamConf struct {
	Name          string `yaml:"name"`
	SubjectPrefix string `yaml:"subject_prefix"`
	Replicas      int    `yaml:"replicas"`
	Storage       string `yaml:"storage"` // file or memory
}

// Load reads the YAML file at path, applies defaults and environment
// overrides. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)

	if v := os.Getenv("USERSTREAM_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("USERSTREAM_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://127.0.0.1:4222"
	}
	if cfg.NATS.Subject == "" {
		cfg.NATS.Subject = "userstream.raw"
	}
	if cfg.Stream.Name == "" {
		cfg.Stream.Name = "USERSTREAM"
	}
	if cfg.Stream.SubjectPrefix == "" {
		cfg.Stream.SubjectPrefix = "userstream.events"
	}
	if cfg.Stream.Replicas == 0 {
		cfg.Stream.Replicas = 1
	}
	if cfg.Stream.Storage == "" {
		cfg.Stream.Storage = "file"
	}
	if cfg.Codec == "" {
		cfg.Codec = "json"
	}
	if cfg.PayloadCodec == "" {
		cfg.PayloadCodec = "json"
	}
	if cfg.ID == "" {
		cfg.ID = "nuid"
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = ":9102"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks the config and reports every problem found.
func Validate(cfg *Config) error {
	var errs []string

	if _, err := codec.Get(cfg.Codec); err != nil {
		errs = append(errs, fmt.Sprintf("codec: %s", err))
	}
	if _, err := userstream.NewDecoder(userstream.PayloadCodec(cfg.PayloadCodec)); err != nil {
		errs = append(errs, fmt.Sprintf("payload_codec: %s", err))
	}
	if _, err := id.Get(cfg.ID); err != nil {
		errs = append(errs, fmt.Sprintf("id: %s", err))
	}

	switch cfg.Stream.Storage {
	case "file", "memory":
	default:
		errs = append(errs, fmt.Sprintf("stream.storage: must be file or memory, got %q", cfg.Stream.Storage))
	}

	if cfg.Stream.Replicas < 1 || cfg.Stream.Replicas > 5 {
		errs = append(errs, fmt.Sprintf("stream.replicas: must be between 1 and 5, got %d", cfg.Stream.Replicas))
	}

	prefix := cfg.Stream.SubjectPrefix
	if strings.ContainsAny(prefix, "*> ") || strings.HasPrefix(prefix, ".") || strings.HasSuffix(prefix, ".") {
		errs = append(errs, fmt.Sprintf("stream.subject_prefix: %q is not a literal subject", prefix))
	}
	if strings.HasPrefix(cfg.NATS.Subject, prefix+".") || cfg.NATS.Subject == prefix {
		errs = append(errs, fmt.Sprintf("nats.subject: %q overlaps the stream subjects", cfg.NATS.Subject))
	}

	if _, err := cfg.Level(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	return l, nil
}
