package config

import (
	"flag"
	"io"
	"time"

	"github.com/publiceyeusa/publiceye/internal/flagx"
)

// parseFlags overlays cfg with command-line flags.
//
// Supported flags:
//
//	-a string   listen address (e.g. ":8000")
//	-d string   PostgreSQL DSN
//	-s string   token signing secret
//	-t int      token validity, hours (0 = until logout)
//	-r string   Redis address for the catalog cache
//	-m string   admin registration path segment
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-r", "-m"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to listen on")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "token signing secret")
	validity := fs.Int("t", int(cfg.TokenValidityDuration.Hours()), "token validity (in hours, 0 = until logout)")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address for the catalog cache")
	fs.StringVar(&cfg.AdminRegisterPath, "m", cfg.AdminRegisterPath, "admin registration path segment")

	if err := fs.Parse(filtered); err != nil {
		return err
	}

	// Only an explicit -t overrides, so sub-hour values from JSON survive.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.TokenValidityDuration = time.Duration(*validity) * time.Hour
		}
	})
	return nil
}
