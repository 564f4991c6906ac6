package utils

// Application-wide names shared by the CLI, configuration loaders and services.
const (
	// ApplicationName is the binary and MCP implementation name.
	ApplicationName = "folder2chat"
	// ConfigFileName is the per-project application configuration file.
	ConfigFileName = ".folder2chat.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".folder2chat"
	// GlobalConfigFileName is the application configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// SettingsFileName is the default location of the persisted filter settings.
	SettingsFileName = "config.json"
	// EnvironmentPrefix prefixes every environment override.
	EnvironmentPrefix = "FOLDER2CHAT"
	// VerboseEnvironmentVariable enables debug logging when set to a true value.
	VerboseEnvironmentVariable = EnvironmentPrefix + "_VERBOSE"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command failures.
	ApplicationExecutionFailedMessage = "application execution failed"
)
