// Package config loads the dashboard configuration.
//
// Values are layered in increasing order of precedence:
//
//	1. Default()
//	2. a YAML file: $PRODDASH_CONFIG, config.yaml or configs/config.yaml
//	3. PRODDASH_* environment variables
//
// Environment variables follow the section and field names:
//
//	PRODDASH_SERVER_PORT=9090
//	PRODDASH_SOURCE_URL=https://reports.example.com/daily.csv
//	PRODDASH_SOURCE_REFRESH_INTERVAL=5m
//	PRODDASH_EXTRACT_MODE=strict
//	PRODDASH_LOGGING_LEVEL=debug
//
// The merged result is checked with go-playground/validator struct tags;
// Load fails with every violation listed.
package config
