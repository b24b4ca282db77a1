package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML instrument configuration.
type Config struct {
	LogLevel       string        `yaml:"log_level"`
	TickIntervalMS int           `yaml:"tick_interval_ms"`
	Session        SessionConfig `yaml:"session"`
	OSC            OSCConfig     `yaml:"osc"`
}

// SessionConfig selects the session-storage backend.
type SessionConfig struct {
	// File is the snapshot path for the file backend.
	File string `yaml:"file"`
	// RedisAddr selects the Redis backend when non-empty.
	RedisAddr string `yaml:"redis_addr"`
	// RedisKey is the snapshot key for the Redis backend.
	RedisKey string `yaml:"redis_key"`
}

// OSCConfig seeds the OSC binding's connection endpoints.
type OSCConfig struct {
	SrcPort string `yaml:"src_port"`
	DstPort string `yaml:"dst_port"`
	DstAddr string `yaml:"dst_addr"`
}

// LoadConfig reads a config file; an empty path yields defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
