// Package config loads runtime configuration for the PublicEye CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-f string   local state database file
//	-t int      request timeout (seconds)
//	-i int      online check interval (seconds)
//
// # JSON schema
//
//	{
//	  "base_url": "http://127.0.0.1:8000/api/v1/",
//	  "db_path": "publiceye.db",
//	  "timeout": "10s",
//	  "online_check_interval": "5s"
//	}
package config
