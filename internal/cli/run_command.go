package cli

import (
	"bufio"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codegather/internal/config"
	"github.com/temirov/codegather/internal/output"
	"github.com/temirov/codegather/internal/services/clipboard"
	"github.com/temirov/codegather/internal/services/pipeline"
	"github.com/temirov/codegather/internal/tokenizer"
	"github.com/temirov/codegather/internal/types"
	"github.com/temirov/codegather/internal/utils"
)

const (
	runUse              = types.CommandRun + " [root]"
	runAlias            = "r"
	runShortDescription = "combine selected files into the artifact (" + runAlias + ")"
	// runLongDescription provides detailed help for the run command.
	runLongDescription = `Scan the root directory (default ".") and write every file selected by
.codegatherignore into one artifact. Flags override the configuration file, which
overrides defaults from .codegather.yaml and the global config.yaml.`
	// runUsageExample demonstrates run command usage.
	runUsageExample = `  # Combine the current project into combined_code.txt
  codegather run

  # Write a header-less artifact for another directory and copy it
  codegather run ../service -o /tmp/service.txt --no-header --copy

  # Count tokens for a specific model
  codegather run --tokens --model gpt-4o-mini`

	outputFlagName               = "output"
	outputFlagShorthand          = "o"
	outputFlagDescription        = "artifact path, relative to the working directory"
	configFlagName               = "config"
	configFlagShorthand          = "c"
	configFlagDescription        = "selection configuration file (default <root>/" + utils.ConfigFileName + ")"
	noHeaderFlagName             = "no-header"
	noHeaderFlagDescription      = "omit START FILE and END FILE markers"
	sessionPromptFlagName        = "session-prompt"
	sessionPromptFlagDescription = "session prompt template to prepend"
	noPromptFlagName             = "no-session-prompt"
	noPromptFlagDescription      = "do not prepend a session prompt"
	verboseFlagName              = "verbose"
	verboseFlagShorthand         = "v"
	verboseFlagDescription       = "log every pipeline step"
	assumeYesFlagName            = "yes"
	assumeYesFlagShorthand       = "y"
	assumeYesFlagDescription     = "continue without asking when the selection is large"
	thresholdFlagName            = "threshold"
	thresholdFlagDescription     = "selection size that triggers a confirmation"
	workersFlagName              = "workers"
	workersFlagDescription       = "number of concurrent file reads"
	tokensFlagName               = "tokens"
	tokensFlagDescription        = "count tokens in the artifact"
	modelFlagName                = "model"
	modelFlagDescription         = "tokenizer model used for token counting"
	copyFlagName                 = "copy"
	copyFlagDescription          = "copy the artifact to the system clipboard"
	settingsFlagName             = "settings"
	settingsFlagDescription      = "application defaults file (default ./" + utils.SettingsFileName + ")"

	largeSelectionQuestionFormat = "%d files selected (threshold %d). Continue?"
	wroteArtifactFormat          = "Wrote %s\n"
	missingConfigurationMessage  = "configuration file not found"
	notConfiguredValue           = "none"
)

// runOptions captures the run command flags.
type runOptions struct {
	outputPath        string
	configPath        string
	noHeader          bool
	sessionPromptPath string
	noSessionPrompt   bool
	verbose           bool
	assumeYes         bool
	threshold         int
	workers           int
	tokens            bool
	model             string
	copyArtifact      bool
	settingsPath      string
}

// createRunCommand returns the run subcommand.
func createRunCommand(dependencies commandDependencies) *cobra.Command {
	var options runOptions

	runCommand := &cobra.Command{
		Use:     runUse,
		Aliases: []string{runAlias},
		Short:   runShortDescription,
		Long:    runLongDescription,
		Example: runUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return executeRun(command, dependencies, options, rootArgument(arguments))
		},
	}

	flags := runCommand.Flags()
	flags.StringVarP(&options.outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	flags.StringVarP(&options.configPath, configFlagName, configFlagShorthand, "", configFlagDescription)
	registerToggleFlag(flags, &options.noHeader, noHeaderFlagName, "", false, noHeaderFlagDescription)
	flags.StringVar(&options.sessionPromptPath, sessionPromptFlagName, "", sessionPromptFlagDescription)
	flags.BoolVar(&options.noSessionPrompt, noPromptFlagName, false, noPromptFlagDescription)
	flags.BoolVarP(&options.verbose, verboseFlagName, verboseFlagShorthand, false, verboseFlagDescription)
	flags.BoolVarP(&options.assumeYes, assumeYesFlagName, assumeYesFlagShorthand, false, assumeYesFlagDescription)
	flags.IntVar(&options.threshold, thresholdFlagName, config.DefaultFileCountThreshold, thresholdFlagDescription)
	flags.IntVar(&options.workers, workersFlagName, config.DefaultWorkers, workersFlagDescription)
	registerToggleFlag(flags, &options.tokens, tokensFlagName, "", false, tokensFlagDescription)
	flags.StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerToggleFlag(flags, &options.copyArtifact, copyFlagName, "", false, copyFlagDescription)
	flags.StringVar(&options.settingsPath, settingsFlagName, "", settingsFlagDescription)
	runCommand.MarkFlagsMutuallyExclusive(sessionPromptFlagName, noPromptFlagName)
	return runCommand
}

// executeRun resolves every configuration layer and runs the pipeline.
func executeRun(command *cobra.Command, dependencies commandDependencies, options runOptions, rootInput string) error {
	logger, loggerError := utils.NewApplicationLogger(options.verbose)
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	defer logger.Sync()

	workingDirectory, workingDirectoryError := resolveWorkingDirectory(dependencies)
	if workingDirectoryError != nil {
		return workingDirectoryError
	}
	root := utils.ResolveAgainst(workingDirectory, rootInput)

	applicationConfiguration, settingsError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory:      workingDirectory,
		ExplicitFilePath:      options.settingsPath,
		GlobalConfigDirectory: dependencies.globalConfigDirectory,
	})
	if settingsError != nil {
		return settingsError
	}
	defaults := applicationConfiguration.Run

	configPath := filepath.Join(root, utils.ConfigFileName)
	if options.configPath != "" {
		configPath = utils.ResolveAgainst(workingDirectory, options.configPath)
	}
	fileSettings, configError := config.LoadConfigurationFile(configPath)
	if configError != nil {
		return configError
	}
	if !fileSettings.Found {
		if options.configPath != "" {
			return types.NewError(types.ErrorCodeConfigParse, configPath, missingConfigurationMessage)
		}
		logger.Warn("no configuration file found, nothing will be selected", zap.String("path", configPath))
	}

	flags := command.Flags()
	overrides := config.Overrides{DisableSessionPrompt: options.noSessionPrompt}
	if flags.Changed(outputFlagName) {
		overrides.OutputPath = &options.outputPath
	}
	if flags.Changed(sessionPromptFlagName) {
		overrides.SessionPromptPath = &options.sessionPromptPath
	}
	if flags.Changed(noHeaderFlagName) {
		overrides.NoHeader = &options.noHeader
	}
	if flags.Changed(thresholdFlagName) {
		overrides.FileCountThreshold = &options.threshold
	}
	if flags.Changed(workersFlagName) {
		overrides.Workers = &options.workers
	}
	configuration := config.Resolve(config.ResolveInput{
		Root:             root,
		WorkingDirectory: workingDirectory,
		File:             fileSettings,
		Defaults:         defaults,
		Overrides:        overrides,
	})

	var tokenCounter tokenizer.Counter
	var tokenModel string
	if layeredBool(flags.Changed(tokensFlagName), options.tokens, defaults.Tokens.Enabled) {
		model := options.model
		if !flags.Changed(modelFlagName) && defaults.Tokens.Model != "" {
			model = defaults.Tokens.Model
		}
		createdCounter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: model})
		if counterError != nil {
			return counterError
		}
		tokenCounter = createdCounter
		tokenModel = resolvedModel
	}

	logger.Info("gathering files",
		zap.String("root", root),
		zap.String("config", valueOrNone(configuration.ConfigFilePath)),
		zap.String("prompt", valueOrNone(configuration.SessionPromptPath)),
		zap.String("output", configuration.OutputPath),
		zap.Bool("headers", configuration.EmitHeaders),
	)

	answers := bufio.NewReader(command.InOrStdin())
	result, runError := pipeline.Run(command.Context(), root, configuration, pipeline.Options{
		Logger: logger,
		ConfirmLargeSelection: func(selected int, threshold int) (bool, error) {
			if options.assumeYes {
				return true, nil
			}
			return confirm(answers, command.ErrOrStderr(), fmt.Sprintf(largeSelectionQuestionFormat, selected, threshold))
		},
		TokenCounter: tokenCounter,
		TokenModel:   tokenModel,
	})
	if runError != nil {
		return runError
	}

	summary := &types.OutputSummary{
		TotalFiles:  result.FilesProcessed,
		TotalSize:   utils.FormatFileSize(result.Bytes),
		TotalTokens: result.Tokens,
		Model:       result.TokenModel,
	}
	fmt.Fprintf(command.OutOrStdout(), wroteArtifactFormat, result.OutputPath)
	fmt.Fprintln(command.OutOrStdout(), output.FormatSummaryLine(summary))

	if layeredBool(flags.Changed(copyFlagName), options.copyArtifact, defaults.Clipboard) {
		if copyError := clipboard.CopyFile(dependencies.copier, result.OutputPath); copyError != nil {
			logger.Warn("clipboard copy failed", zap.Error(copyError))
		} else {
			logger.Info("artifact copied to clipboard")
		}
	}
	return nil
}

// layeredBool returns the flag value when it was given, otherwise the default
// when one is configured, otherwise false.
func layeredBool(flagChanged bool, flagValue bool, defaultValue *bool) bool {
	if flagChanged {
		return flagValue
	}
	if defaultValue != nil {
		return *defaultValue
	}
	return false
}

func valueOrNone(value string) string {
	if value == "" {
		return notConfiguredValue
	}
	return value
}
