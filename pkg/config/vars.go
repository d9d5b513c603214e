package config

import (
	"path/filepath"
)

var (
	// MinVersionCompiled determines the oldest compiled structure format
	// that can still be read. Newer formats are all supported.
	MinVersionCompiled = "v0.1.0"
	// AppName is used in generating file system paths.
	AppName = "gnpia"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gnpia by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/gnpia by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// InferenceCacheDir returns the directory of inference results cache.
func InferenceCacheDir(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "inference")
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/gnpia/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/gnpia/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}
