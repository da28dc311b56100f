package config

import (
	"os"
	"strings"
)

// ApplyEnv overrides file settings with TODOKEEP_* variables when set.
func (c *Config) ApplyEnv() {
	if val := getEnv("TODOKEEP_DATA_DIR"); val != "" {
		c.Storage.DataDir = val
	}
	if val := getEnv("TODOKEEP_STORAGE"); val != "" {
		c.Storage.Driver = val
	}
	if val := getEnv("TODOKEEP_KEY"); val != "" {
		c.Storage.Key = val
	}
	if val := getEnv("TODOKEEP_ADDR"); val != "" {
		c.Server.Addr = val
	}
	switch strings.ToLower(getEnv("TODOKEEP_DEV_STATIC")) {
	case "1", "true", "yes":
		c.Server.DevStatic = true
	case "0", "false", "no":
		c.Server.DevStatic = false
	}
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
