package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tyemirov/folder2chat/internal/utils"
)

const (
	// TextExtensionsKey is the persisted field holding recognized extensions.
	TextExtensionsKey = "TEXT_EXTENSIONS"
	// ExcludedFoldersKey is the persisted field holding excluded names.
	ExcludedFoldersKey = "DEFAULT_EXCLUDED_FOLDERS"

	settingsFilePermissions = 0o644
	settingsFormatJSON      = "json"
	settingsFormatYAML      = "yaml"

	logSettingsLoaded   = "Configuration loaded"
	logSettingsDefaults = "Using default configuration"
	logSettingsSaved    = "Configuration saved"

	errorStatSettingsFormat   = "stat settings %s: %w"
	errorReadSettingsFormat   = "read settings from %s: %w"
	errorEncodeSettingsFormat = "encode settings for %s: %w"
	errorSettingsDirFormat    = "settings path %s is a directory"
)

// SettingsDocument is the persisted and transported form of Filters.
type SettingsDocument struct {
	TextExtensions  []string `json:"TEXT_EXTENSIONS" yaml:"TEXT_EXTENSIONS"`
	ExcludedFolders []string `json:"DEFAULT_EXCLUDED_FOLDERS" yaml:"DEFAULT_EXCLUDED_FOLDERS"`
}

// DocumentFromFilters renders filters as sorted lists.
func DocumentFromFilters(filters Filters) SettingsDocument {
	return SettingsDocument{
		TextExtensions:  filters.Extensions(),
		ExcludedFolders: filters.ExcludedNames(),
	}
}

// Filters converts the document into an immutable snapshot.
func (document SettingsDocument) Filters() Filters {
	return NewFilters(document.TextExtensions, document.ExcludedFolders)
}

// SettingsStore owns the process-wide filter snapshot. Readers obtain the
// current snapshot with Current; writers swap the whole snapshot with Replace.
type SettingsStore struct {
	path       string
	logger     *zap.Logger
	current    atomic.Pointer[Filters]
	writeMutex sync.Mutex
}

// NewSettingsStore creates a store persisted at path and seeded with the default filters.
// An empty path keeps the settings in memory only.
func NewSettingsStore(path string, logger *zap.Logger) *SettingsStore {
	store := &SettingsStore{path: path, logger: utils.LoggerOrNop(logger)}
	defaults := DefaultFilters()
	store.current.Store(&defaults)
	return store
}

// Path returns the persistence location, or an empty string for memory-only stores.
func (store *SettingsStore) Path() string {
	return store.path
}

// Current returns the active filter snapshot.
func (store *SettingsStore) Current() Filters {
	return *store.current.Load()
}

// Load reads the persisted settings. A missing file selects the defaults.
// A malformed file also selects the defaults and is reported as an error.
// Fields absent from the file keep their default values.
func (store *SettingsStore) Load() error {
	defaults := DefaultFilters()
	if store.path == "" {
		store.current.Store(&defaults)
		return nil
	}

	info, statError := os.Stat(store.path)
	if statError != nil {
		store.current.Store(&defaults)
		if os.IsNotExist(statError) {
			store.logger.Info(logSettingsDefaults, zap.String("path", store.path))
			return nil
		}
		return fmt.Errorf(errorStatSettingsFormat, store.path, statError)
	}
	if info.IsDir() {
		store.current.Store(&defaults)
		return fmt.Errorf(errorSettingsDirFormat, store.path)
	}

	reader := viper.New()
	reader.SetConfigFile(store.path)
	reader.SetConfigType(settingsFormat(store.path))
	if readError := reader.ReadInConfig(); readError != nil {
		store.current.Store(&defaults)
		return fmt.Errorf(errorReadSettingsFormat, store.path, readError)
	}

	document := DocumentFromFilters(defaults)
	if reader.IsSet(TextExtensionsKey) {
		document.TextExtensions = reader.GetStringSlice(TextExtensionsKey)
	}
	if reader.IsSet(ExcludedFoldersKey) {
		document.ExcludedFolders = reader.GetStringSlice(ExcludedFoldersKey)
	}
	loaded := document.Filters()
	store.current.Store(&loaded)
	store.logger.Info(logSettingsLoaded, zap.String("path", store.path))
	return nil
}

// Replace atomically installs filters and persists them. The new snapshot is
// active even when persisting fails; the failure is returned to the caller.
func (store *SettingsStore) Replace(filters Filters) error {
	store.writeMutex.Lock()
	defer store.writeMutex.Unlock()

	replacement := filters
	store.current.Store(&replacement)
	if store.path == "" {
		return nil
	}

	encoded, encodeError := encodeSettings(store.path, DocumentFromFilters(replacement))
	if encodeError != nil {
		return fmt.Errorf(errorEncodeSettingsFormat, store.path, encodeError)
	}
	if writeError := utils.WriteFileLocked(store.path, encoded, settingsFilePermissions); writeError != nil {
		return writeError
	}
	store.logger.Info(logSettingsSaved, zap.String("path", store.path))
	return nil
}

// settingsFormat maps .yaml and .yml paths to YAML and every other path to JSON.
func settingsFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return settingsFormatYAML
	default:
		return settingsFormatJSON
	}
}

func encodeSettings(path string, document SettingsDocument) ([]byte, error) {
	switch settingsFormat(path) {
	case settingsFormatYAML:
		return yaml.Marshal(document)
	default:
		encoded, marshalError := json.MarshalIndent(document, "", "  ")
		if marshalError != nil {
			return nil, marshalError
		}
		return append(encoded, '\n'), nil
	}
}
