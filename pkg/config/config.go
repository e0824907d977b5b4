/*
Package config manages TOML config for WordsWords.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/wordswords/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Dict   DictConfig   `toml:"dict"`
	Server ServerConfig `toml:"server"`
	Bench  BenchConfig  `toml:"bench"`
}

// EngineConfig holds the default query options.
type EngineConfig struct {
	TopN        int    `toml:"top_n"`
	Procedure   string `toml:"procedure"`
	Sort        string `toml:"sort"`
	Reverse     bool   `toml:"reverse"`
	Restrictive bool   `toml:"restrictive"`
}

// DictConfig names the corpus inputs.
type DictConfig struct {
	WordList string `toml:"word_list"`
	ZipfFile string `toml:"zipf_file"`
}

// ServerConfig has IPC related options.
type ServerConfig struct {
	MaxTopN     int    `toml:"max_top_n"`
	MaxPattern  int    `toml:"max_pattern"`
	MetricsAddr string `toml:"metrics_addr"`
}

// BenchConfig holds benchmark harness options.
type BenchConfig struct {
	WarmupIters   int `toml:"warmup_iters"`
	MeasuredIters int `toml:"measured_iters"`
	Seed          int `toml:"seed"`
	MinWordLen    int `toml:"min_word_len"`
	MinPatternLen int `toml:"min_pattern_len"`
	MaxPatternLen int `toml:"max_pattern_len"`
	PerLength     int `toml:"per_length"`
}

// ConfigFileName is the name of the config file inside the config dir.
const ConfigFileName = "config.toml"

// GetDefaultConfigPath returns the default config.toml path. The directory
// follows XDG_CONFIG_HOME (APPDATA on Windows) and falls back to other
// writable locations, see utils.PathResolver.
func GetDefaultConfigPath() (string, error) {
	resolver, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return resolver.GetConfigPath(ConfigFileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [XDG_CONFIG_HOME or ~/.config]/wordswords/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			TopN:      20,
			Procedure: "automaton",
			Sort:      "gap",
		},
		Dict: DictConfig{
			WordList: "wordlist.txt",
			ZipfFile: "zipf.tsv",
		},
		Server: ServerConfig{
			MaxTopN:    500,
			MaxPattern: 32,
		},
		Bench: BenchConfig{
			WarmupIters:   3,
			MeasuredIters: 10,
			Seed:          1337,
			MinWordLen:    6,
			MinPatternLen: 3,
			MaxPatternLen: 6,
			PerLength:     10,
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
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well-typed key it can find and defaults the rest
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "bench"); ok {
		extractBenchConfig(section, &config.Bench)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractInt64(data, "top_n"); ok {
		engine.TopN = val
	}
	if val, ok := utils.ExtractString(data, "procedure"); ok {
		engine.Procedure = val
	}
	if val, ok := utils.ExtractString(data, "sort"); ok {
		engine.Sort = val
	}
	if val, ok := utils.ExtractBool(data, "reverse"); ok {
		engine.Reverse = val
	}
	if val, ok := utils.ExtractBool(data, "restrictive"); ok {
		engine.Restrictive = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "word_list"); ok {
		dict.WordList = val
	}
	if val, ok := utils.ExtractString(data, "zipf_file"); ok {
		dict.ZipfFile = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_top_n"); ok {
		server.MaxTopN = val
	}
	if val, ok := utils.ExtractInt64(data, "max_pattern"); ok {
		server.MaxPattern = val
	}
	if val, ok := utils.ExtractString(data, "metrics_addr"); ok {
		server.MetricsAddr = val
	}
}

func extractBenchConfig(data map[string]any, bench *BenchConfig) {
	fields := map[string]*int{
		"warmup_iters":    &bench.WarmupIters,
		"measured_iters":  &bench.MeasuredIters,
		"seed":            &bench.Seed,
		"min_word_len":    &bench.MinWordLen,
		"min_pattern_len": &bench.MinPatternLen,
		"max_pattern_len": &bench.MaxPatternLen,
		"per_length":      &bench.PerLength,
	}
	for key, dst := range fields {
		if val, ok := utils.ExtractInt64(data, key); ok {
			*dst = val
		}
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
