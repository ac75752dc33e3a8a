// Package config loads soundbox settings from TOML with environment overrides.
//
// Lookup order for the file: an explicit path, then ~/.config/soundbox/config.toml,
// then ./soundbox.toml. A missing file is not an error; defaults apply.
// SOUNDBOX_* environment variables are applied after the file.
package config
