// Package pipeline runs one codegather invocation: validate the configuration,
// scan the root, then assemble the artifact.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/codegather/internal/commands"
	"github.com/temirov/codegather/internal/config"
	"github.com/temirov/codegather/internal/output"
	"github.com/temirov/codegather/internal/tokenizer"
	"github.com/temirov/codegather/internal/types"
)

// State is a stage of a run.
type State string

const (
	StateIdle        State = "idle"
	StateConfiguring State = "configuring"
	StateScanning    State = "scanning"
	StateAssembling  State = "assembling"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
)

const (
	thresholdWarningFormat = "%d files selected, above the threshold of %d"
	abortedMessage         = "run aborted after large selection warning"
	rootMissingMessage     = "root does not exist"
	rootNotDirectoryMsg    = "root is not a directory"
)

// Terminal reports whether no further transition can follow.
func (state State) Terminal() bool {
	return state == StateCompleted || state == StateFailed
}

// Options carries the collaborators of a run. Every field is optional.
type Options struct {
	Logger *zap.Logger
	// ConfirmLargeSelection decides whether to continue once the selection
	// exceeds the threshold. A nil function continues.
	ConfirmLargeSelection func(selected int, threshold int) (bool, error)
	TokenCounter          tokenizer.Counter
	TokenModel            string
	// OnStateChange observes every transition, including the terminal one.
	OnStateChange func(State)
}

// Result is the outcome of a run. Warnings hold every non-fatal problem.
type Result struct {
	State          State
	FilesSelected  int
	FilesProcessed int
	Warnings       []types.Warning
	OutputPath     string
	Bytes          int64
	Tokens         int
	TokenModel     string
}

type run struct {
	options Options
	logger  *zap.Logger
	result  Result
}

// Run gathers the files under root that configuration selects into the
// configured artifact. The returned error is non-nil exactly when the final
// state is StateFailed.
func Run(ctx context.Context, root string, configuration config.Configuration, options Options) (Result, error) {
	current := &run{options: options, logger: options.Logger, result: Result{State: StateIdle}}
	if current.logger == nil {
		current.logger = zap.NewNop()
	}

	current.transition(StateConfiguring)
	absoluteRoot, configureError := current.configure(root, configuration)
	if configureError != nil {
		return current.fail(configureError)
	}

	current.transition(StateScanning)
	selection, scanError := current.scan(ctx, absoluteRoot, configuration)
	if scanError != nil {
		return current.fail(scanError)
	}

	current.transition(StateAssembling)
	assembler := output.NewAssembler(current.logger, options.TokenCounter)
	assembled, assembleError := assembler.Assemble(ctx, absoluteRoot, selection, configuration)
	current.result.Warnings = append(current.result.Warnings, assembled.Warnings...)
	if assembleError != nil {
		return current.fail(assembleError)
	}

	current.result.FilesProcessed = assembled.FilesWritten
	current.result.OutputPath = assembled.OutputPath
	current.result.Bytes = assembled.Bytes
	if assembled.TokensKnown {
		current.result.Tokens = assembled.Tokens
		current.result.TokenModel = options.TokenModel
	}
	current.transition(StateCompleted)
	return current.result, nil
}

func (current *run) configure(root string, configuration config.Configuration) (string, error) {
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return "", types.WrapError(absoluteError, types.ErrorCodeRootNotFound, root, rootMissingMessage)
	}
	rootInfo, statError := os.Stat(absoluteRoot)
	if statError != nil {
		return "", types.WrapError(statError, types.ErrorCodeRootNotFound, absoluteRoot, rootMissingMessage)
	}
	if !rootInfo.IsDir() {
		return "", types.NewError(types.ErrorCodeRootNotFound, absoluteRoot, rootNotDirectoryMsg)
	}
	if validationError := configuration.Validate(); validationError != nil {
		return "", validationError
	}
	return absoluteRoot, nil
}

func (current *run) scan(ctx context.Context, absoluteRoot string, configuration config.Configuration) ([]types.SelectionEntry, error) {
	threshold := configuration.EffectiveThreshold()
	scanned, scanError := commands.Scan(ctx, commands.ScanOptions{
		Root:      absoluteRoot,
		Rules:     configuration.Rules(),
		SkipPaths: []string{configuration.OutputPath, configuration.SessionPromptPath, configuration.ConfigFilePath},
		Threshold: threshold,
		Logger:    current.logger,
	})
	current.result.Warnings = append(current.result.Warnings, scanned.Warnings...)
	for _, warning := range scanned.Warnings {
		current.logger.Warn(warning.Message, zap.String("path", warning.Path))
	}
	if scanError != nil {
		return nil, scanError
	}
	current.result.FilesSelected = len(scanned.Entries)
	current.logger.Debug("scan finished", zap.Int("selected", len(scanned.Entries)))

	if scanned.ThresholdExceeded {
		message := fmt.Sprintf(thresholdWarningFormat, len(scanned.Entries), threshold)
		current.result.Warnings = append(current.result.Warnings, types.Warning{Message: message})
		current.logger.Warn(message)
		if current.options.ConfirmLargeSelection != nil {
			proceed, confirmError := current.options.ConfirmLargeSelection(len(scanned.Entries), threshold)
			if confirmError != nil {
				return nil, types.WrapError(confirmError, types.ErrorCodeAborted, "", abortedMessage)
			}
			if !proceed {
				return nil, types.NewError(types.ErrorCodeAborted, "", abortedMessage)
			}
		}
	}
	return scanned.Entries, nil
}

func (current *run) transition(next State) {
	current.logger.Debug("pipeline state", zap.String("from", string(current.result.State)), zap.String("to", string(next)))
	current.result.State = next
	if current.options.OnStateChange != nil {
		current.options.OnStateChange(next)
	}
}

func (current *run) fail(cause error) (Result, error) {
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		current.logger.Debug("pipeline cancelled", zap.Error(cause))
	}
	current.transition(StateFailed)
	return current.result, cause
}
