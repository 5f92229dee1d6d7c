package config

import (
	"flag"
	"io"
	"time"

	"github.com/publiceyeusa/publiceye/internal/flagx"
)

// Flags lists the value flags parsed by parseFlags.
var Flags = []string{"-a", "-f", "-t", "-i"}

// AllFlags is Flags plus the spellings of the config file flag.
var AllFlags = append([]string{"-c", "-config", "--c", "--config"}, Flags...)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   API base URL (default from Config)
//	-f string   local state database file
//	-t int      request timeout in seconds
//	-i int      online check interval in seconds
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, Flags)

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "API base URL")
	fs.StringVar(&cfg.DBPath, "f", cfg.DBPath, "local state database file")
	timeout := fs.Int("t", int(cfg.Timeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(filtered); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.Timeout = time.Duration(*timeout) * time.Second
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
		}
	})
	return nil
}
