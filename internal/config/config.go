// Package config loads pantry settings from an optional YAML file, a .env
// file and PANTRY_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Database is a SQLite path, ":memory:", or a postgres:// DSN.
	Database string     `yaml:"database"`
	Auth     AuthConfig `yaml:"auth"`
	Server   Server     `yaml:"server"`
	Blob     Blob       `yaml:"blob"`
	Log      Log        `yaml:"log"`
}

type AuthConfig struct {
	// UserID is the static session used by the CLI when no token is set.
	UserID    string `yaml:"user_id"`
	Email     string `yaml:"email"`
	Token     string `yaml:"token"`
	JWTSecret string `yaml:"jwt_secret"`
}

type Server struct {
	Addr string `yaml:"addr"`
	Gzip bool   `yaml:"gzip"`
}

type Blob struct {
	Driver string `yaml:"driver"`
	Root   string `yaml:"root"`
	S3     S3     `yaml:"s3"`
}

type S3 struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, receives log output instead of stderr.
	File string `yaml:"file"`
}

// Dir is the per-user state directory (~/.pantry).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".pantry"), nil
}

// Default returns settings rooted at dir.
func Default(dir string) Config {
	return Config{
		Database: filepath.Join(dir, "pantry.db"),
		Server:   Server{Addr: ":8080", Gzip: true},
		Blob: Blob{
			Driver: "fs",
			Root:   filepath.Join(dir, "files"),
			S3:     S3{Region: "us-east-1"},
		},
		Log: Log{Level: "warn", Format: "text"},
	}
}

// Load reads .env from the working directory if present, then the YAML file
// at $PANTRY_CONFIG or ~/.pantry/config.yaml, then environment overrides.
// A missing file is not an error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	cfg := Default(dir)

	path := os.Getenv("PANTRY_CONFIG")
	if path == "" {
		path = filepath.Join(dir, "config.yaml")
	}
	if err := cfg.readFile(path); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.Database, "PANTRY_DB")
	setString(&c.Auth.UserID, "PANTRY_USER_ID")
	setString(&c.Auth.Email, "PANTRY_EMAIL")
	setString(&c.Auth.Token, "PANTRY_TOKEN")
	setString(&c.Auth.JWTSecret, "PANTRY_JWT_SECRET")
	setString(&c.Server.Addr, "PANTRY_ADDR")
	setBool(&c.Server.Gzip, "PANTRY_GZIP")
	setString(&c.Blob.Driver, "PANTRY_BLOB_DRIVER")
	setString(&c.Blob.Root, "PANTRY_BLOB_ROOT")
	setString(&c.Blob.S3.Bucket, "PANTRY_S3_BUCKET")
	setString(&c.Blob.S3.Region, "PANTRY_S3_REGION")
	setString(&c.Blob.S3.Endpoint, "PANTRY_S3_ENDPOINT")
	setBool(&c.Blob.S3.PathStyle, "PANTRY_S3_PATH_STYLE")
	setString(&c.Blob.S3.AccessKeyID, "PANTRY_S3_ACCESS_KEY_ID")
	setString(&c.Blob.S3.SecretAccessKey, "PANTRY_S3_SECRET_ACCESS_KEY")
	setString(&c.Log.Level, "PANTRY_LOG_LEVEL")
	setString(&c.Log.Format, "PANTRY_LOG_FORMAT")
	setString(&c.Log.File, "PANTRY_LOG_FILE")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// setBool ignores values strconv cannot parse.
func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
