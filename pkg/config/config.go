/*
Package config manages the TOML config for cmdserve.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/cmdserve/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Server ServerConfig `toml:"server"`
	Vocab  VocabConfig  `toml:"vocab"`
	CLI    CliConfig    `toml:"cli"`
}

// EngineConfig tunes the suggestion engine.
type EngineConfig struct {
	FuzzyFallback  bool `toml:"fuzzy_fallback"`
	FuzzyThreshold int  `toml:"fuzzy_threshold"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MinPrefix int `toml:"min_prefix"`
	MaxPrefix int `toml:"max_prefix"`
}

// VocabConfig points at the command vocabulary.
type VocabConfig struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowTiming bool `toml:"show_timing"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/cmdserve
// 2. ~/Library/Application Support/cmdserve (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.ExecutableDir()
	}
	primary := filepath.Join(homeDir, ".config", "cmdserve")
	if result := utils.CheckDirStatus(primary); result.Writable {
		return primary, nil
	}
	macOS := filepath.Join(homeDir, "Library", "Application Support", "cmdserve")
	if result := utils.CheckDirStatus(macOS); result.Writable {
		return macOS, nil
	}
	execDir, err := utils.ExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/cmdserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customPath string) (*Config, string, error) {
	if customPath != "" {
		if _, statErr := os.Stat(customPath); statErr == nil {
			cfg, err := LoadConfig(customPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customPath)
				return cfg, customPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	cfg, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at %s: %v. Using built-in defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return cfg, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			FuzzyFallback:  true,
			FuzzyThreshold: 2,
		},
		Server: ServerConfig{
			MinPrefix: 0,
			MaxPrefix: 60,
		},
		Vocab: VocabConfig{
			Path:  "",
			Watch: true,
		},
		CLI: CliConfig{
			ShowTiming: true,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return cfg, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Keys missing from the file keep their
// defaults; a file that fails to decode is salvaged section by section.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, cfg); err != nil {
		return tryPartialParse(configPath)
	}
	cfg.normalize()
	return cfg, nil
}

func tryPartialParse(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return cfg, nil
	}

	if section, ok := utils.ExtractSection(raw, "engine"); ok {
		extractEngineConfig(section, &cfg.Engine)
	}
	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &cfg.Server)
	}
	if section, ok := utils.ExtractSection(raw, "vocab"); ok {
		extractVocabConfig(section, &cfg.Vocab)
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		if val, ok := utils.ExtractBool(section, "show_timing"); ok {
			cfg.CLI.ShowTiming = val
		}
	}
	cfg.normalize()
	return cfg, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractBool(data, "fuzzy_fallback"); ok {
		engine.FuzzyFallback = val
	}
	if val, ok := utils.ExtractInt(data, "fuzzy_threshold"); ok {
		engine.FuzzyThreshold = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
}

func extractVocabConfig(data map[string]any, vocab *VocabConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		vocab.Path = val
	}
	if val, ok := utils.ExtractBool(data, "watch"); ok {
		vocab.Watch = val
	}
}

// normalize replaces out of range values with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Engine.FuzzyThreshold < 0 {
		log.Warnf("fuzzy_threshold %d is negative, using %d", c.Engine.FuzzyThreshold, def.Engine.FuzzyThreshold)
		c.Engine.FuzzyThreshold = def.Engine.FuzzyThreshold
	}
	if c.Server.MinPrefix < 0 {
		c.Server.MinPrefix = def.Server.MinPrefix
	}
	if c.Server.MaxPrefix < c.Server.MinPrefix {
		log.Warnf("max_prefix %d is below min_prefix %d, using %d", c.Server.MaxPrefix, c.Server.MinPrefix, def.Server.MaxPrefix)
		c.Server.MaxPrefix = max(def.Server.MaxPrefix, c.Server.MinPrefix)
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.AbsPath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(cfg *Config, configPath string) error {
	return utils.SaveTOMLFile(cfg, configPath)
}

// Update changes the engine values and saves to file. An empty configPath
// only updates the values in memory.
func (c *Config) Update(configPath string, fuzzyThreshold *int, fuzzyFallback *bool) error {
	if fuzzyThreshold != nil {
		c.Engine.FuzzyThreshold = *fuzzyThreshold
	}
	if fuzzyFallback != nil {
		c.Engine.FuzzyFallback = *fuzzyFallback
	}
	c.normalize()
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
