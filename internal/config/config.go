// Copyright (c) 2025 luoxu-web-ai authors
// All rights reserved. Use of this source code is governed by an
// MIT-style license that can be found in the LICENSE file.

package config

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Port        int
	Host        string
	ConfigFile  string
	Store       string
	DBPath      string
	StaticDir   string
	ProxyPrefix string
	ProxyTarget string
	SessionKey  string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:        3000,
		Host:        "0.0.0.0",
		ConfigFile:  "config.json", // relative to the working directory
		Store:       "file",
		DBPath:      "config.db",
		ProxyPrefix: "/luoxu_api",
		SessionKey:  "luoxu_logged_in",
	}
}

// Load builds the configuration from the standard locations.
// Priority (later wins):
// 1. defaults
// 2. ~/.luoxu/config.ini, or /etc/luoxu/config.ini if the user file is absent
// 3. .env in the working directory (never overrides variables already set)
// 4. environment variables
//
// Errors are returned only if a file exists but cannot be read/parsed.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	var err error
	if path := iniPath(); path != "" {
		cfg, err = parseFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	applyEnv(cfg, os.Getenv)
	return cfg, nil
}

func iniPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(home, ".luoxu", "config.ini")
		if _, err := os.Stat(userPath); err == nil {
			return userPath
		}
	}
	sysPath := "/etc/luoxu/config.ini"
	if _, err := os.Stat(sysPath); err == nil {
		return sysPath
	}
	return ""
}

// applyEnv overlays environment variables. PORT is the only unprefixed one.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Port = i
		}
	}
	if v := getenv("LUOXU_HOST"); v != "" {
		cfg.Host = v
	}
	if v := getenv("LUOXU_CONFIG_FILE"); v != "" {
		cfg.ConfigFile = expandHome(v)
	}
	if v := getenv("LUOXU_STORE"); v != "" {
		cfg.Store = strings.ToLower(v)
	}
	if v := getenv("LUOXU_DB_PATH"); v != "" {
		cfg.DBPath = expandHome(v)
	}
	if v := getenv("LUOXU_STATIC_DIR"); v != "" {
		cfg.StaticDir = expandHome(v)
	}
	if v := getenv("LUOXU_PROXY_PREFIX"); v != "" {
		cfg.ProxyPrefix = v
	}
	if v := getenv("LUOXU_PROXY_TARGET"); v != "" {
		cfg.ProxyTarget = v
	}
	if v := getenv("LUOXU_SESSION_KEY"); v != "" {
		cfg.SessionKey = v
	}
}

// parseFile reads a simple key=value INI file.
// Supported keys: port, host, config_file, store, db_path, static_dir,
// proxy_prefix, proxy_target, session_key
func parseFile(path string, defaults *Config) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// copy defaults
	cfg := *defaults

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		// section headers are ignored, the structure is flat
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])

		// remove quotes if present
		if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') && val[len(val)-1] == val[0] {
			val = val[1 : len(val)-1]
		}

		switch strings.ToLower(key) {
		case "port":
			if i, err := strconv.Atoi(val); err == nil {
				cfg.Port = i
			}
		case "host":
			cfg.Host = val
		case "config_file", "configfile":
			cfg.ConfigFile = expandHome(val)
		case "store":
			cfg.Store = strings.ToLower(val)
		case "db_path", "dbpath":
			cfg.DBPath = expandHome(val)
		case "static_dir", "staticdir":
			cfg.StaticDir = expandHome(val)
		case "proxy_prefix":
			cfg.ProxyPrefix = val
		case "proxy_target":
			cfg.ProxyTarget = val
		case "session_key":
			cfg.SessionKey = val
		}
	}

	return &cfg, scanner.Err()
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.Store {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown store %q (want file, sqlite or memory)", c.Store)
	}
	if c.Store == "file" && c.ConfigFile == "" {
		return fmt.Errorf("config_file is required for the file store")
	}
	if c.Store == "sqlite" && c.DBPath == "" {
		return fmt.Errorf("db_path is required for the sqlite store")
	}
	if c.SessionKey == "" {
		return fmt.Errorf("session_key must not be empty")
	}
	if c.ProxyTarget != "" {
		u, err := url.Parse(c.ProxyTarget)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid proxy_target %q", c.ProxyTarget)
		}
		if !strings.HasPrefix(c.ProxyPrefix, "/") || c.ProxyPrefix == "/" {
			return fmt.Errorf("invalid proxy_prefix %q", c.ProxyPrefix)
		}
	}
	return nil
}

// StorePath returns the path handed to the store for the configured kind.
func (c *Config) StorePath() string {
	if c.Store == "sqlite" {
		return c.DBPath
	}
	return c.ConfigFile
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
