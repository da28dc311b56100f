package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version string        `yaml:"version" json:"version"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	UI      UIConfig      `yaml:"ui" json:"ui"`
	Stats   StatsConfig   `yaml:"stats" json:"stats"`
}

type StorageConfig struct {
	// Driver is "file", "sqlite" or "memory".
	Driver  string `yaml:"driver" json:"driver"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
	Key     string `yaml:"key" json:"key"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
	// DevStatic serves static/ from disk instead of the embedded copy.
	DevStatic bool `yaml:"dev_static" json:"dev_static"`
}

type UIConfig struct {
	Title          string `yaml:"title" json:"title"`
	ConfirmMessage string `yaml:"confirm_message" json:"confirm_message"`
	DefaultFilter  string `yaml:"default_filter" json:"default_filter"`
}

type StatsConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

func Default() *Config {
	c := &Config{Stats: StatsConfig{Enabled: true}}
	c.ApplyDefaults()
	return c
}

func (s *StorageConfig) ApplyDefaults() {
	if s.Driver == "" {
		s.Driver = "file"
	}
	if s.DataDir == "" {
		s.DataDir = "data"
	}
	if s.Key == "" {
		s.Key = "todo_store_v1"
	}
}

func (s *ServerConfig) ApplyDefaults() {
	if s.Addr == "" {
		s.Addr = ":42069"
	}
}

func (u *UIConfig) ApplyDefaults() {
	if u.Title == "" {
		u.Title = "To-do"
	}
	if u.ConfirmMessage == "" {
		u.ConfirmMessage = "Delete all tasks?"
	}
	if u.DefaultFilter == "" {
		u.DefaultFilter = "all"
	}
}

func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	c.Storage.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.UI.ApplyDefaults()
}

// Load reads a YAML config. A missing file is not an error: defaults are
// used. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c := Default()
			c.ApplyEnv()
			return c, nil
		}
		return nil, err
	}
	r := Config{Stats: StatsConfig{Enabled: true}}
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	r.ApplyEnv()
	return &r, nil
}
