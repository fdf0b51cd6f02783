// Package config loads settings from environment variables and an optional
// config file, applies defaults, and validates the result before the server
// starts.
package config
