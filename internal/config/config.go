// Package config reads the server settings from an optional YAML file and
// the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr        string        `yaml:"addr"`
	DBType      string        `yaml:"dbType"` // json | postgres
	DatabaseURL string        `yaml:"databaseUrl"`
	SaveDir     string        `yaml:"saveDir"`
	AssetsDir   string        `yaml:"assetsDir"`
	Content     string        `yaml:"content"` // optional catalogue override
	Width       int           `yaml:"width"`
	Height      int           `yaml:"height"`
	Stride      int           `yaml:"stride"`
	Encounter   float64       `yaml:"encounterChance"`
	SessionIdle time.Duration `yaml:"sessionIdle"` // "30m"; 0 keeps web sessions forever
}

func Default() Config {
	return Config{
		Addr:      ":8080",
		DBType:    "json",
		SaveDir:   "saves",
		AssetsDir: "assets",
		Width:     320,
		Height:    200,
		Stride:    1,
		Encounter: 0.08,

		SessionIdle: 30 * time.Minute,
	}
}

// SaveFile is where the JSON store keeps its data.
func (c Config) SaveFile() string {
	return filepath.Join(c.SaveDir, "saves.json")
}

// Load starts from Default, overlays path when it exists and then the
// environment. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(filepath.Clean(path)) //nolint:gosec // operator-supplied path
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"CRAWLER_ADDR":     &c.Addr,
		"DB_TYPE":          &c.DBType,
		"DATABASE_URL":     &c.DatabaseURL,
		"CRAWLER_SAVE_DIR": &c.SaveDir,
		"CRAWLER_ASSETS":   &c.AssetsDir,
		"CRAWLER_CONTENT":  &c.Content,
	}
	for k, dst := range str {
		if v, ok := lookup(k); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup("PORT"); ok && v != "" && !hasEnv(lookup, "CRAWLER_ADDR") {
		c.Addr = ":" + v
	}
	if v, ok := lookup("CRAWLER_ENCOUNTER_CHANCE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CRAWLER_ENCOUNTER_CHANCE: %w", err)
		}
		c.Encounter = f
	}
	if v, ok := lookup("CRAWLER_SESSION_IDLE"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CRAWLER_SESSION_IDLE: %w", err)
		}
		c.SessionIdle = d
	}
	c.DBType = strings.ToLower(c.DBType)
	return nil
}

func hasEnv(lookup func(string) (string, bool), k string) bool {
	v, ok := lookup(k)
	return ok && v != ""
}

func (c Config) Validate() error {
	switch c.DBType {
	case "json":
		if c.SaveDir == "" {
			return errors.New("config: saveDir is empty")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("config: postgres needs databaseUrl or DATABASE_URL")
		}
	default:
		return fmt.Errorf("config: unknown dbType %q", c.DBType)
	}
	if c.Width < 16 || c.Height < 16 {
		return fmt.Errorf("config: frame %dx%d too small", c.Width, c.Height)
	}
	if c.Stride < 1 {
		return fmt.Errorf("config: stride %d", c.Stride)
	}
	if c.Encounter < 0 || c.Encounter > 1 {
		return fmt.Errorf("config: encounterChance %v outside [0,1]", c.Encounter)
	}
	if c.SessionIdle < 0 {
		return fmt.Errorf("config: sessionIdle %v is negative", c.SessionIdle)
	}
	return nil
}
