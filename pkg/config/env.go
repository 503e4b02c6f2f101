package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnv returns the environment variable value for key, or def if unset or empty.
func GetEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvInt returns the environment variable value for key parsed as int, or def if unset or invalid.
func GetEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

// GetEnvDuration returns the environment variable value for key parsed as time.Duration, or def if unset or invalid.
func GetEnvDuration(key string, def time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return def
}

// GetEnvInts parses a comma-separated list of integers. Invalid entries are skipped.
func GetEnvInts(key string, def []int) []int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	var out []int
	for _, part := range strings.Split(val, ",") {
		if i, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
