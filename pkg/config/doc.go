// Package config provides configuration management for the IAM server.
//
// Configuration is read from $IAM_CONFIG_PATH/iam.yml (default
// /etc/iam/config/iam.yml) and then overridden by IAM_* environment
// variables. Every attribute remembers whether its value came from the
// default, the file or the environment; `iamctl configuration show` prints
// that table.
//
// # Key Configuration Options
//
//   - IAM_TOKEN_SIGNING_KEY: HMAC secret for access and refresh tokens
//   - IAM_ACCESS_TOKEN_TTL, IAM_REFRESH_TOKEN_TTL: token lifetimes in seconds
//   - IAM_PAGE_SIZE_MAX: largest accepted pageSize
//   - IAM_LOG_LEVEL, IAM_LOG_FORMAT: zap logger settings
//   - DATABASE_URL: database connection (read by pkg/db)
package config
