// Package utils provides shared infrastructure for the epicmigrate CLI:
// a Viper-backed configuration loader, a zap logger factory, and helpers for
// values carried on command execution contexts.
package utils
