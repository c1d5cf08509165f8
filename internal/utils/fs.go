package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// DirCheckResult represents the result of dir checks
type DirCheckResult struct {
	Exists   bool
	Writable bool
	Error    error
}

// FileExists reports whether path can be stat'ed
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir and its parents when missing
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// SaveTOMLFile encodes v into a new TOML file at path
func SaveTOMLFile(v any, path string) error {
	file, err := os.Create(path)
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(v)
}

// AbsPath returns path made absolute, or "unknown" for an empty path
func AbsPath(path string) string {
	if path == "" {
		return "unknown"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// ExecutableDir returns the directory of the running binary
func ExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}
	return filepath.Dir(execPath), nil
}

// CheckDirStatus creates dir when needed and checks that it is writable
func CheckDirStatus(dir string) DirCheckResult {
	result := DirCheckResult{}
	if err := os.MkdirAll(dir, 0755); err != nil {
		result.Error = err
		log.Warnf("Cannot create directory %s: %v", dir, err)
		return result
	}
	result.Exists = true
	result.Writable = canWrite(dir)
	return result
}

func canWrite(dir string) bool {
	marker := filepath.Join(dir, ".write_test")
	file, err := os.Create(marker)
	if err != nil {
		log.Warnf("Cannot write to directory %s: %v", dir, err)
		return false
	}
	file.Close()
	os.Remove(marker)
	return true
}
