// Package output assembles the combined artifact: the optional session prompt
// followed by every selected file, written atomically.
package output

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/codegather/internal/commands"
	"github.com/temirov/codegather/internal/config"
	"github.com/temirov/codegather/internal/tokenizer"
	"github.com/temirov/codegather/internal/types"
)

const (
	// CombineSeparator divides the session prompt from the file blocks.
	CombineSeparator = "\n\n--> code files combine starts here: <--\n\n"

	fileStartFormat = "--- START FILE: %s ---\n"
	fileEndFormat   = "\n--- END FILE: %s ---"
	blockSeparator  = "\n\n"
	finalNewline    = "\n"

	emptySelectionFormat            = "# No code files found matching criteria in '%s'\n"
	emptySelectionIncludeFormat     = "# Include Patterns: %s\n"
	emptySelectionExcludeFormat     = "# Exclude Patterns: %s\n"
	emptySelectionAfterPromptFormat = "\n# No code files found matching criteria in '%s' (after session prompt)\n"
	patternListSeparator            = ", "
	emptyPatternList                = "(none)"

	temporaryFilePattern = ".%s.*.tmp"
	artifactFileMode     = 0o644

	createDirectoryMessage = "cannot create output directory"
	createTemporaryMessage = "cannot create temporary artifact"
	writeArtifactMessage   = "cannot write artifact"
	renameArtifactMessage  = "cannot move artifact into place"
	tokenCountWarning      = "token counting disabled"
)

// Assembler writes selections into the combined artifact.
type Assembler struct {
	logger       *zap.Logger
	tokenCounter tokenizer.Counter
}

// AssembleResult describes a written artifact.
type AssembleResult struct {
	OutputPath   string
	FilesWritten int
	Bytes        int64
	Tokens       int
	TokensKnown  bool
	Warnings     []types.Warning
}

// NewAssembler constructs an Assembler. A nil logger discards log output and a
// nil counter disables token counting.
func NewAssembler(logger *zap.Logger, tokenCounter tokenizer.Counter) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{logger: logger, tokenCounter: tokenCounter}
}

// Assemble writes the prompt and the selected files to configuration.OutputPath.
// Unreadable or binary files are skipped with a warning. The artifact only
// appears once fully written; on failure or cancellation nothing is left behind.
func (assembler *Assembler) Assemble(ctx context.Context, root string, selection []types.SelectionEntry, configuration config.Configuration) (AssembleResult, error) {
	result := AssembleResult{OutputPath: configuration.OutputPath}
	rootName := rootDisplayName(root)

	var prompt SessionPrompt
	if configuration.PromptEnabled() {
		loadedPrompt, promptError := LoadSessionPrompt(configuration.SessionPromptPath, rootName)
		if promptError != nil {
			return result, promptError
		}
		prompt = loadedPrompt
	}

	outputDirectory := filepath.Dir(configuration.OutputPath)
	if mkdirError := os.MkdirAll(outputDirectory, 0o755); mkdirError != nil {
		return result, types.WrapError(mkdirError, types.ErrorCodeOutputWrite, outputDirectory, createDirectoryMessage)
	}
	temporaryFile, createError := os.CreateTemp(outputDirectory, fmt.Sprintf(temporaryFilePattern, filepath.Base(configuration.OutputPath)))
	if createError != nil {
		return result, types.WrapError(createError, types.ErrorCodeOutputWrite, outputDirectory, createTemporaryMessage)
	}
	temporaryPath := temporaryFile.Name()
	committed := false
	defer func() {
		if !committed {
			temporaryFile.Close()
			os.Remove(temporaryPath)
		}
	}()
	if chmodError := temporaryFile.Chmod(artifactFileMode); chmodError != nil {
		return result, types.WrapError(chmodError, types.ErrorCodeOutputWrite, temporaryPath, createTemporaryMessage)
	}

	writer := &artifactWriter{buffered: bufio.NewWriter(temporaryFile), counter: assembler.tokenCounter}

	if configuration.PromptEnabled() {
		writer.writeString(prompt.Resolved)
		writer.writeString(CombineSeparator)
	}

	readError := commands.ReadSelection(ctx, selection, configuration.EffectiveWorkers(), func(content commands.FileContent) error {
		if content.Err != nil {
			warning := types.Warning{Path: content.Entry.RelativePath, Message: content.Err.Error()}
			result.Warnings = append(result.Warnings, warning)
			assembler.logger.Warn("skipping file", zap.String("path", content.Entry.RelativePath), zap.Error(content.Err))
			return nil
		}
		if result.FilesWritten > 0 {
			writer.writeString(blockSeparator)
		}
		if configuration.EmitHeaders {
			writer.writeString(fmt.Sprintf(fileStartFormat, content.Entry.RelativePath))
		}
		writer.writeBytes(content.Content)
		if configuration.EmitHeaders {
			writer.writeString(fmt.Sprintf(fileEndFormat, content.Entry.RelativePath))
		}
		result.FilesWritten++
		assembler.logger.Debug("appended file", zap.String("path", content.Entry.RelativePath), zap.Int("bytes", len(content.Content)))
		return writer.err
	})
	if readError != nil {
		if ctx.Err() != nil {
			return result, readError
		}
		return result, types.WrapError(readError, types.ErrorCodeOutputWrite, configuration.OutputPath, writeArtifactMessage)
	}

	if configuration.EmitHeaders {
		switch {
		case result.FilesWritten > 0:
			writer.writeString(finalNewline)
		case len(selection) > 0:
			// every selected file was skipped; the warnings name them
		case configuration.PromptEnabled():
			writer.writeString(fmt.Sprintf(emptySelectionAfterPromptFormat, rootName))
		default:
			writer.writeString(fmt.Sprintf(emptySelectionFormat, rootName))
			writer.writeString(fmt.Sprintf(emptySelectionIncludeFormat, formatPatternList(configuration.EffectiveIncludePatterns())))
			writer.writeString(fmt.Sprintf(emptySelectionExcludeFormat, formatPatternList(configuration.ExcludePatterns)))
		}
	}

	if writer.countError != nil {
		result.Warnings = append(result.Warnings, types.Warning{Message: tokenCountWarning + ": " + writer.countError.Error()})
		assembler.logger.Warn(tokenCountWarning, zap.Error(writer.countError))
	}

	if finishError := writer.finish(); finishError != nil {
		return result, types.WrapError(finishError, types.ErrorCodeOutputWrite, configuration.OutputPath, writeArtifactMessage)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return result, types.WrapError(closeError, types.ErrorCodeOutputWrite, configuration.OutputPath, writeArtifactMessage)
	}
	if renameError := os.Rename(temporaryPath, configuration.OutputPath); renameError != nil {
		return result, types.WrapError(renameError, types.ErrorCodeOutputWrite, configuration.OutputPath, renameArtifactMessage)
	}
	committed = true

	result.Bytes = writer.bytes
	result.Tokens = writer.tokens
	result.TokensKnown = assembler.tokenCounter != nil && writer.countError == nil
	return result, nil
}

// artifactWriter buffers artifact text and keeps running byte and token totals.
// The first write error is sticky.
type artifactWriter struct {
	buffered   *bufio.Writer
	counter    tokenizer.Counter
	bytes      int64
	tokens     int
	err        error
	countError error
}

func (writer *artifactWriter) writeString(text string) {
	writer.writeBytes([]byte(text))
}

func (writer *artifactWriter) writeBytes(data []byte) {
	if writer.err != nil || len(data) == 0 {
		return
	}
	written, writeError := writer.buffered.Write(data)
	writer.bytes += int64(written)
	if writeError != nil {
		writer.err = writeError
		return
	}
	if writer.counter == nil || writer.countError != nil {
		return
	}
	counted, countError := tokenizer.CountBytes(writer.counter, data)
	if countError != nil {
		writer.countError = countError
		return
	}
	writer.tokens += counted.Tokens
}

func (writer *artifactWriter) finish() error {
	if writer.err != nil {
		return writer.err
	}
	return writer.buffered.Flush()
}

func rootDisplayName(root string) string {
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return filepath.Base(root)
	}
	return filepath.Base(absoluteRoot)
}

func formatPatternList(patternList []string) string {
	if len(patternList) == 0 {
		return emptyPatternList
	}
	return strings.Join(patternList, patternListSeparator)
}
