package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSteamCMD(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.SteamDir) == "" {
		if value, ok := os.LookupEnv("LUAMAKER_STEAM_DIR"); ok {
			c.Paths.SteamDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.SteamDir, err = expandPath(strings.TrimSpace(c.Paths.SteamDir)); err != nil {
		return fmt.Errorf("paths.steam_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSteamCMD() error {
	c.SteamCMD.Binary = strings.TrimSpace(c.SteamCMD.Binary)
	if c.SteamCMD.Binary == "" {
		if value, ok := os.LookupEnv("STEAMCMD_PATH"); ok {
			c.SteamCMD.Binary = strings.TrimSpace(value)
		}
	}
	if strings.ContainsAny(c.SteamCMD.Binary, `/\`) || strings.HasPrefix(c.SteamCMD.Binary, "~") {
		expanded, err := expandPath(c.SteamCMD.Binary)
		if err != nil {
			return fmt.Errorf("steamcmd.binary: %w", err)
		}
		c.SteamCMD.Binary = expanded
	}
	if c.SteamCMD.Timeout <= 0 {
		c.SteamCMD.Timeout = defaultSteamCMDTimeout
	}
	c.SteamCMD.FallbackFile = strings.TrimSpace(c.SteamCMD.FallbackFile)
	if c.SteamCMD.FallbackFile == "" {
		c.SteamCMD.FallbackFile = defaultFallbackFile
	}
	var err error
	if c.SteamCMD.FallbackFile, err = expandPath(c.SteamCMD.FallbackFile); err != nil {
		return fmt.Errorf("steamcmd.fallback_file: %w", err)
	}
	c.SteamCMD.AppInfoURL = strings.TrimSpace(c.SteamCMD.AppInfoURL)
	if c.SteamCMD.AppInfoURL == "" {
		c.SteamCMD.AppInfoURL = defaultAppInfoURL
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
