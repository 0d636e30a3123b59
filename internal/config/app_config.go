package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/temirov/codegather/internal/utils"
)

// LoadOptions controls how application defaults are discovered.
type LoadOptions struct {
	WorkingDirectory      string
	ExplicitFilePath      string
	GlobalConfigDirectory string
}

// ApplicationConfiguration holds user-level defaults for commands.
type ApplicationConfiguration struct {
	Run RunConfiguration `mapstructure:"run"`
}

// RunConfiguration defines defaults for the run command.
type RunConfiguration struct {
	Threshold *int               `mapstructure:"threshold"`
	Workers   *int               `mapstructure:"workers"`
	Headers   *bool              `mapstructure:"headers"`
	Clipboard *bool              `mapstructure:"clipboard"`
	Tokens    TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// GlobalSettingsPath returns the global defaults file location under the XDG
// config home, or under directory when it is set.
func GlobalSettingsPath(directory string) string {
	if directory == "" {
		directory = xdg.ConfigHome
	}
	return filepath.Join(directory, utils.GlobalConfigDirectoryName, utils.GlobalSettingsFileName)
}

// LoadApplicationConfiguration loads defaults from the global file and then the
// local (or explicit) file; local keys override global ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	globalConfig, loadErr := loadConfigurationFromPath(GlobalSettingsPath(options.GlobalConfigDirectory))
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(globalConfig)

	localPath := filepath.Join(workingDirectory, utils.SettingsFileName)
	if options.ExplicitFilePath != "" {
		localPath = utils.ResolveAgainst(workingDirectory, options.ExplicitFilePath)
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	return merged.Merge(localConfig), nil
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
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var configuration ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&configuration); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Run = result.Run.merge(override.Run)
	return result
}

func (configuration RunConfiguration) merge(override RunConfiguration) RunConfiguration {
	result := configuration
	if override.Threshold != nil {
		result.Threshold = cloneInt(override.Threshold)
	}
	if override.Workers != nil {
		result.Workers = cloneInt(override.Workers)
	}
	if override.Headers != nil {
		result.Headers = cloneBool(override.Headers)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.Tokens.Enabled != nil {
		result.Tokens.Enabled = cloneBool(override.Tokens.Enabled)
	}
	if override.Tokens.Model != "" {
		result.Tokens.Model = override.Tokens.Model
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
