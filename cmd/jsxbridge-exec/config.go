package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jonwraymond/jsxbridge/bridge"
)

type fileConfig struct {
	ProgIDs            []string `toml:"prog_ids"`
	SlowCallThreshold  string   `toml:"slow_call_threshold"`
	SlowCallThresholdS int64    `toml:"slow_call_threshold_s"`
	LogLevel           string   `toml:"log_level"`
}

type serviceConfig struct {
	ProgIDs           []string
	SlowCallThreshold time.Duration
	LogLevel          string
}

func defaultServiceConfig() serviceConfig {
	return serviceConfig{
		ProgIDs:           bridge.DefaultProgIDs,
		SlowCallThreshold: bridge.DefaultSlowCallThreshold,
		LogLevel:          "info",
	}
}

// loadServiceConfig layers the optional TOML file over the defaults.
func loadServiceConfig(path string) (serviceConfig, error) {
	cfg := defaultServiceConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return serviceConfig{}, fmt.Errorf("load exec config: %w", err)
	}

	if meta.IsDefined("prog_ids") {
		ids := normalizeProgIDs(raw.ProgIDs)
		if len(ids) > 0 {
			cfg.ProgIDs = ids
		}
	}

	if meta.IsDefined("slow_call_threshold") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.SlowCallThreshold))
		if err != nil {
			return serviceConfig{}, fmt.Errorf("parse slow_call_threshold: %w", err)
		}
		cfg.SlowCallThreshold = d
	}

	if meta.IsDefined("slow_call_threshold_s") {
		cfg.SlowCallThreshold = time.Duration(raw.SlowCallThresholdS) * time.Second
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	return cfg, nil
}

// applyEnv folds environment overrides into cfg. INDESIGN_EXEC_TIMEOUT
// carries the slow-call threshold in whole seconds.
func applyEnv(cfg serviceConfig) serviceConfig {
	if v := os.Getenv("INDESIGN_EXEC_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs > 0 {
			cfg.SlowCallThreshold = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("INDESIGN_PROG_IDS"); v != "" {
		ids := normalizeProgIDs(strings.Split(v, ","))
		if len(ids) > 0 {
			cfg.ProgIDs = ids
		}
	}
	return cfg
}

func normalizeProgIDs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, id := range in {
		if v := strings.TrimSpace(id); v != "" {
			out = append(out, v)
		}
	}
	return out
}
