package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const appName = "folio"

// Vault represents the managed data directory for folio
type Vault struct {
	RootPath    string
	StorePath   string
	ExportsPath string
	ConfigPath  string
}

// New creates a new Vault instance with XDG-compliant paths
func New() (*Vault, error) {
	rootPath, rootErr := getVaultRoot()
	configPath, configErr := getConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine data root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	return NewAt(rootPath, configPath), nil
}

// NewAt creates a Vault rooted at an explicit directory.
// Used by --data-dir and by tests.
func NewAt(rootPath, configPath string) *Vault {
	return &Vault{
		RootPath:    rootPath,
		StorePath:   filepath.Join(rootPath, "store"),
		ExportsPath: filepath.Join(rootPath, "exports"),
		ConfigPath:  configPath,
	}
}

// getVaultRoot returns the data root directory path
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func getVaultRoot() (string, error) {
	if dir := os.Getenv("FOLIO_DATA_DIR"); dir != "" {
		return dir, nil
	}

	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName), nil
	}

	return filepath.Join(homeDir, ".local", "share", appName), nil
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName+"-config", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", appName, "config.yaml"), nil
}

// Initialize creates the data directory structure if it doesn't exist
func (v *Vault) Initialize() error {
	directories := []string{
		v.RootPath,
		v.StorePath,
		v.ExportsPath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the data directory has been created
func (v *Vault) Exists() bool {
	info, err := os.Stat(v.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// DatabasePath returns the sqlite database used by the sqlite backend
func (v *Vault) DatabasePath() string {
	return filepath.Join(v.RootPath, appName+".db")
}

// LogPath returns the log file written while the dashboard owns the terminal
func (v *Vault) LogPath() string {
	return filepath.Join(v.RootPath, appName+".log")
}

// EnvPath returns the optional .env file next to the data
func (v *Vault) EnvPath() string {
	return filepath.Join(v.RootPath, ".env")
}

// GetExportPath returns the full path for an export file.
// An empty dir falls back to ExportsPath.
func (v *Vault) GetExportPath(dir, filename string) string {
	if dir == "" {
		dir = v.ExportsPath
	}
	return filepath.Join(dir, filename)
}

// ExportPattern matches the files written by folio's export
const ExportPattern = "blog-dashboard-export-*.json"

// PruneExports removes export files older than maxAge and returns how many were removed.
// Only names matching ExportPattern are considered. A non-positive maxAge keeps everything.
func (v *Vault) PruneExports(maxAge time.Duration, now time.Time) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(v.ExportsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read exports directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(ExportPattern, entry.Name()); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}
		path := filepath.Join(v.ExportsPath, entry.Name())
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed++
	}

	return removed, nil
}
