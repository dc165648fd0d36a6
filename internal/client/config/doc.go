// Package config loads runtime configuration for the files manager CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-s string          base URL of the files manager API
//	-token string      file holding the session token between invocations
//	-timeout duration  per-request timeout
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "token_file": "/home/me/.filesmanager_token",
//	  "timeout": "30s"
//	}
package config
