// Package config provides configuration loading and validation for lanshare.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (LANSHARE_ prefix)
//  4. CLI flags
//
// Without explicit files, ./lanshare.yaml is read when present.
//
// # Environment Variables
//
// All config keys map to environment variables with LANSHARE_ prefix:
//   - server.port → LANSHARE_SERVER_PORT
//   - auth.password → LANSHARE_AUTH_PASSWORD
//   - control.token_hash → LANSHARE_CONTROL_TOKEN_HASH
//
// # Validation
//
//   - Port must be 0-65535 (0 picks an ephemeral port)
//   - Username and password must be set together
//   - Database type must be sqlite or postgres
//   - Log level must be debug, info, warn, or error
//   - Log format must be text or json
package config
