package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvCacheDir overrides the XDG cache directory for locmerge
	EnvCacheDir = "LOCMERGE_CACHE_DIR"

	// EnvStateDir overrides the XDG state directory for locmerge
	EnvStateDir = "LOCMERGE_STATE_DIR"
)

// Fixed names. These are not user-configurable.
const (
	// AppDirName is the directory name used under XDG roots
	AppDirName = "locmerge"

	// LogFileName is the name of the log file
	LogFileName = "locmerge.log"

	// CacheDBName is the file name of the source snapshot database
	CacheDBName = "sources.db"

	// LockFileName guards an output directory against concurrent runs
	LockFileName = ".locmerge.lock"

	// OutputFileName is the file every variant writes
	OutputFileName = "global.ini"
)

// CacheDir returns the directory holding the source snapshot database
func CacheDir() string {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return expandHome(dir)
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppDirName)
	}
	return filepath.Join(xdg.CacheHome, AppDirName)
}

// StateDir returns the directory holding the log file
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return expandHome(dir)
	}
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, AppDirName)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// LogFilePath returns the path of the log file
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// CacheDBPath returns the configured database path, or the XDG default when
// configured is empty
func CacheDBPath(configured string) string {
	if configured != "" {
		return expandHome(configured)
	}
	return filepath.Join(CacheDir(), CacheDBName)
}

// LockPath returns the lock file guarding outputDir
func LockPath(outputDir string) string {
	return filepath.Join(outputDir, LockFileName)
}

// VariantDir returns the directory owned by one output variant
func VariantDir(outputDir, variant string) string {
	return filepath.Join(outputDir, variant)
}

// VariantOutputPath returns the file a variant writes
func VariantOutputPath(outputDir, variant string) string {
	return filepath.Join(VariantDir(outputDir, variant), OutputFileName)
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
