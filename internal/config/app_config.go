package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/tyemirov/folder2chat/internal/utils"
)

// DefaultServerAddress is the HTTP listen address used when none is configured.
const DefaultServerAddress = "127.0.0.1:8000"

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	HomeDirectory    string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	SettingsFile string              `mapstructure:"settings_file"`
	Tree         TreeConfiguration   `mapstructure:"tree"`
	Report       ReportConfiguration `mapstructure:"report"`
	Server       ServerConfiguration `mapstructure:"server"`
}

// TreeConfiguration defines defaults for the tree command and endpoint.
type TreeConfiguration struct {
	Format   string `mapstructure:"format"`
	Limit    *int   `mapstructure:"limit"`
	Ordering string `mapstructure:"ordering"`
}

// ReportConfiguration defines defaults for report generation.
type ReportConfiguration struct {
	IncludeTree *bool              `mapstructure:"include_tree"`
	Policy      string             `mapstructure:"policy"`
	Tokens      TokenConfiguration `mapstructure:"tokens"`
	Clipboard   *bool              `mapstructure:"clipboard"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// ServerConfiguration defines defaults for the HTTP service.
type ServerConfiguration struct {
	Address        string        `mapstructure:"address"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoadApplicationConfiguration loads configuration from the global file and
// then the local (or explicit) file, later sources overriding earlier ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}

	var merged ApplicationConfiguration
	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	if merged.SettingsFile != "" && !filepath.IsAbs(merged.SettingsFile) {
		merged.SettingsFile = filepath.Join(workingDirectory, merged.SettingsFile)
	}
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.SettingsFile != "" {
		result.SettingsFile = override.SettingsFile
	}
	result.Tree = result.Tree.merge(override.Tree)
	result.Report = result.Report.merge(override.Report)
	result.Server = result.Server.merge(override.Server)
	return result
}

func (config TreeConfiguration) merge(override TreeConfiguration) TreeConfiguration {
	result := config
	result.Limit = cloneInt(config.Limit)
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Limit != nil {
		result.Limit = cloneInt(override.Limit)
	}
	if override.Ordering != "" {
		result.Ordering = override.Ordering
	}
	return result
}

func (config ReportConfiguration) merge(override ReportConfiguration) ReportConfiguration {
	result := config
	result.IncludeTree = cloneBool(config.IncludeTree)
	result.Clipboard = cloneBool(config.Clipboard)
	if override.IncludeTree != nil {
		result.IncludeTree = cloneBool(override.IncludeTree)
	}
	if override.Policy != "" {
		result.Policy = override.Policy
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	result.Enabled = cloneBool(config.Enabled)
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (config ServerConfiguration) merge(override ServerConfiguration) ServerConfiguration {
	result := config
	if override.Address != "" {
		result.Address = override.Address
	}
	if override.RequestTimeout > 0 {
		result.RequestTimeout = override.RequestTimeout
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
