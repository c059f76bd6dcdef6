// Package config loads, normalizes, and validates luamaker configuration.
//
// Configuration lives in TOML. Load looks for an explicit path first, then
// ~/.config/luamaker/config.toml, then luamaker.toml in the working
// directory, and falls back to defaults when none exist. Paths are expanded
// (including ~) before validation so the rest of the program only sees
// absolute locations. Environment fallbacks: LUAMAKER_STEAM_DIR and
// STEAMCMD_PATH.
package config
