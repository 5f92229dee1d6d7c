package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/publiceyeusa/publiceye/internal/flagx"
	"github.com/publiceyeusa/publiceye/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Timeout
// accepts "10s" or integer nanoseconds via timex.Duration.
type JSONConfig struct {
	BaseURL             *string         `json:"base_url"`
	DBPath              *string         `json:"db_path"`
	Timeout             *timex.Duration `json:"timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
}

// parseJSON overlays cfg with the file passed via -c/-config. No flag, no-op.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.BaseURL != nil {
		cfg.BaseURL = *jc.BaseURL
	}
	if jc.DBPath != nil {
		cfg.DBPath = *jc.DBPath
	}
	if jc.Timeout != nil {
		cfg.Timeout = jc.Timeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	return nil
}
