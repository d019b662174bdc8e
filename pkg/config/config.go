package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	Environment  string
	DatabasePath string
	RelayHost    string
	RelayPort    int
}

func Load() *Config {
	// Best effort; a missing env file is fine. Real environment variables
	// win over file values (godotenv never overrides).
	if path, ok := os.LookupEnv("PEYK_ENV_FILE"); ok && path != "" {
		godotenv.Load(path)
	} else {
		godotenv.Load()
	}

	return &Config{
		Port:         getEnv("PEYK_PORT", "12345"),
		Environment:  getEnv("PEYK_ENVIRONMENT", "development"),
		DatabasePath: getEnv("PEYK_DATABASE_PATH", "./data/peyk.db"),
		RelayHost:    getEnv("PEYK_RELAY_HOST", "localhost"),
		RelayPort:    parseInt(getEnv("PEYK_RELAY_PORT", "12345"), 12345),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseInt(s string, defaultValue int) int {
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return val
}
