package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// Project file names and defaults shared by the CLI and the core.
const (
	// ConfigFileName is the per-project selection configuration file.
	ConfigFileName = ".codegatherignore"
	// SessionPromptFileName is the session prompt created by init.
	SessionPromptFileName = ".codegather_session_prompt.txt"
	// DefaultOutputFileName is used when neither flags nor configuration name an output.
	DefaultOutputFileName = "combined_code.txt"
	// SettingsFileName is the local application defaults file.
	SettingsFileName = ".codegather.yaml"
	// GlobalConfigDirectoryName is the directory under the XDG config home holding global defaults.
	GlobalConfigDirectoryName = "codegather"
	// GlobalSettingsFileName is the global application defaults file.
	GlobalSettingsFileName = "config.yaml"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

// Log message formats shared by entry points.
const (
	// LoggerInitializationFailedMessageFormat reports logger construction failures.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command errors.
	ApplicationExecutionFailedMessage = "codegather failed"
)
