package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBasePath is the verified record file
	DefaultBasePath = "public/carga_verificada_v2.txt"
	// DefaultOverridePath is the full record file, which is also the default output
	DefaultOverridePath = "public/carga_full_v3.txt"
)

// Config represents the application configuration
type Config struct {
	BasePath     string `yaml:"base_path"`
	OverridePath string `yaml:"override_path"`
	OutputPath   string `yaml:"output_path"`
	LedgerPath   string `yaml:"ledger_path"`
	LogLevel     string `yaml:"log_level"`
	Output       string `yaml:"output"`
}

// Load loads configuration from multiple sources with precedence:
// 1. Environment variables
// 2. ./.env.local (dotenv) - walks up parent directories to find it
// 3. ~/.config/tambo/config.yaml (YAML)
func Load() (*Config, error) {
	cfg := &Config{
		BasePath:     DefaultBasePath,
		OverridePath: DefaultOverridePath,
		LogLevel:     "warn",
		Output:       "table",
	}

	// Load .env.local if it exists (walking up parent directories)
	if envPath := findEnvLocal(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	// YAML config is optional
	_ = loadYAMLConfig(cfg)

	if basePath := getEnvOrFile("TAMBO_BASE_PATH", "TAMBO_BASE_PATH_FILE"); basePath != "" {
		cfg.BasePath = basePath
	}
	if overridePath := getEnvOrFile("TAMBO_OVERRIDE_PATH", "TAMBO_OVERRIDE_PATH_FILE"); overridePath != "" {
		cfg.OverridePath = overridePath
	}
	if outputPath := getEnvOrFile("TAMBO_OUTPUT_PATH", "TAMBO_OUTPUT_PATH_FILE"); outputPath != "" {
		cfg.OutputPath = outputPath
	}
	if ledgerPath := getEnvOrFile("TAMBO_LEDGER_PATH", "TAMBO_LEDGER_PATH_FILE"); ledgerPath != "" {
		cfg.LedgerPath = ledgerPath
	}
	if logLevel := os.Getenv("TAMBO_LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if output := os.Getenv("TAMBO_OUTPUT"); output != "" {
		cfg.Output = output
	}

	return cfg, nil
}

// Destination returns where merged output is written. Unless configured
// otherwise the override file is rewritten in place.
func (c *Config) Destination() string {
	if c.OutputPath != "" {
		return c.OutputPath
	}
	return c.OverridePath
}

// loadYAMLConfig loads configuration from ~/.config/tambo/config.yaml
func loadYAMLConfig(cfg *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(homeDir, ".config", "tambo", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// getEnvOrFile gets an environment variable value, or reads it from a file
// if the _FILE variant is set
func getEnvOrFile(envVar, fileVar string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}

	if filePath := os.Getenv(fileVar); filePath != "" {
		data, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(data))
		}
	}

	return ""
}

// findEnvLocal searches for .env.local starting from cwd and walking up
// parent directories. Stops at the user's home directory.
// Returns the path to .env.local if found, empty string otherwise.
func findEnvLocal() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if _, err := os.Stat(".env.local"); err == nil {
			return ".env.local"
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	homeDir = filepath.Clean(homeDir)
	dir := filepath.Clean(cwd)

	for {
		envPath := filepath.Join(dir, ".env.local")
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}

		if dir == homeDir {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}
