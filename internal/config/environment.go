package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tyemirov/folder2chat/internal/utils"
)

const (
	environmentFileName        = ".env"
	environmentAddressKey      = "address"
	environmentSettingsFileKey = "settings_file"
	environmentTimeoutKey      = "request_timeout"
)

// ApplyEnvironment loads a .env file from workingDirectory when present and
// overlays FOLDER2CHAT_ADDRESS, FOLDER2CHAT_SETTINGS_FILE and
// FOLDER2CHAT_REQUEST_TIMEOUT onto config. Variables already set in the
// process environment win over the .env file.
func ApplyEnvironment(config ApplicationConfiguration, workingDirectory string) (ApplicationConfiguration, error) {
	environmentFilePath := filepath.Join(workingDirectory, environmentFileName)
	if loadError := godotenv.Load(environmentFilePath); loadError != nil && !errors.Is(loadError, fs.ErrNotExist) {
		return config, fmt.Errorf("load %s: %w", environmentFilePath, loadError)
	}

	reader := viper.New()
	reader.SetEnvPrefix(utils.EnvironmentPrefix)
	for _, key := range []string{environmentAddressKey, environmentSettingsFileKey, environmentTimeoutKey} {
		if bindError := reader.BindEnv(key); bindError != nil {
			return config, fmt.Errorf("bind environment variable %s: %w", key, bindError)
		}
	}

	result := config
	if address := reader.GetString(environmentAddressKey); address != "" {
		result.Server.Address = address
	}
	if settingsFile := reader.GetString(environmentSettingsFileKey); settingsFile != "" {
		if !filepath.IsAbs(settingsFile) {
			settingsFile = filepath.Join(workingDirectory, settingsFile)
		}
		result.SettingsFile = settingsFile
	}
	if reader.IsSet(environmentTimeoutKey) {
		timeout := reader.GetDuration(environmentTimeoutKey)
		if timeout <= 0 {
			return config, fmt.Errorf("invalid %s_%s value %q", utils.EnvironmentPrefix, "REQUEST_TIMEOUT", reader.GetString(environmentTimeoutKey))
		}
		result.Server.RequestTimeout = timeout
	}
	return result, nil
}
