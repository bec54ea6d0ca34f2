package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads env files into the process environment. With no arguments it
// loads ".env" from the working directory. A missing file is reported as an
// error that callers are free to ignore, falling back to the system env
// and the GetEnv defaults.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// GetEnv returns the value of the environment variable key, or fallback when
// the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetEnvInt returns the integer value of the environment variable key, or
// fallback when the variable is unset, empty, or not a valid integer.
func GetEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
