package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/publiceyeusa/publiceye/internal/flagx"
	"github.com/publiceyeusa/publiceye/internal/timex"
)

// JSONConfig is the on-disk shape of the server config file. Absent fields
// leave the current value untouched.
type JSONConfig struct {
	ListenAddr            *string         `json:"listen_addr"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	RedisAddr             *string         `json:"redis_addr"`
	CatalogCacheTTL       *timex.Duration `json:"catalog_cache_ttl"`
	AdminRegisterPath     *string         `json:"admin_register_path"`
	AllowedOrigins        []string        `json:"allowed_origins"`
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

	if jc.ListenAddr != nil {
		cfg.ListenAddr = *jc.ListenAddr
	}
	if jc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *jc.DatabaseDSN
	}
	if jc.SecretKey != nil {
		cfg.SecretKey = *jc.SecretKey
	}
	if jc.TokenValidityDuration != nil {
		cfg.TokenValidityDuration = jc.TokenValidityDuration.Duration
	}
	if jc.RedisAddr != nil {
		cfg.RedisAddr = *jc.RedisAddr
	}
	if jc.CatalogCacheTTL != nil {
		cfg.CatalogCacheTTL = jc.CatalogCacheTTL.Duration
	}
	if jc.AdminRegisterPath != nil {
		cfg.AdminRegisterPath = *jc.AdminRegisterPath
	}
	if jc.AllowedOrigins != nil {
		cfg.AllowedOrigins = jc.AllowedOrigins
	}
	return nil
}
