package config

import "runtime"

const (
	defaultConfigPath       = "~/.config/luamaker/config.toml"
	projectConfigName       = "luamaker.toml"
	defaultOutputDir        = "."
	defaultLogDir           = "~/.local/share/luamaker/logs"
	defaultStateDirFallback = "~/.local/state/luamaker"
	defaultSteamCMDTimeout  = 60
	defaultFallbackFile     = "get_appinfo.txt"
	defaultAppInfoURL       = "https://steamui.com/api/get_appinfo.php?appid={appid}"
	defaultNtfyTimeout      = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir(),
		},
		SteamCMD: SteamCMD{
			Timeout:                 defaultSteamCMDTimeout,
			FallbackFile:            defaultFallbackFile,
			RemoveFallbackAfterRead: true,
			AppInfoURL:              defaultAppInfoURL,
		},
		Output: Output{
			RequireManifests: true,
			UsePlugin:        true,
		},
		History: History{
			Enabled: true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

func defaultSteamCMDBinary() string {
	if runtime.GOOS == "windows" {
		return "steamcmd.exe"
	}
	return "steamcmd"
}
