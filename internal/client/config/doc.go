// Package config loads runtime configuration for the GastroHealth client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the API, e.g. http://127.0.0.1:8080
//	-s string   local storage file
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "server_url": "https://gastro.example.com",
//	  "storage_path": "/home/me/.gastro/gastro.db",
//	  "log_level": "info"
//	}
package config
