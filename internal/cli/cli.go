// Package cli provides the command line interface.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/temirov/codegather/internal/services/clipboard"
	"github.com/temirov/codegather/internal/utils"
)

const (
	versionFlagName        = "version"
	versionFlagDescription = "display application version"
	versionTemplate        = "codegather version: %s\n"
	rootUse                = "codegather"
	rootShortDescription   = "combine project source files into one text artifact"
	rootLongDescription    = `codegather selects project files with include and exclude globs and
concatenates them into a single text file, optionally prefixed with a session prompt.
Selection rules come from .codegatherignore in the scanned root; run "codegather init"
to create one. Use --version to print the application version.`

	confirmationPromptFormat = "%s [y/N]: "
	workingDirectoryFormat   = "unable to determine working directory: %w"
	defaultPath              = "."
)

var affirmativeAnswers = map[string]struct{}{"y": {}, "yes": {}}

// commandDependencies holds the collaborators the commands reach outside the
// process with. Tests replace them.
type commandDependencies struct {
	copier                clipboard.Copier
	globalConfigDirectory string
	workingDirectory      func() (string, error)
}

func defaultDependencies() commandDependencies {
	return commandDependencies{
		copier:           clipboard.NewService(),
		workingDirectory: os.Getwd,
	}
}

// Execute runs the codegather application. An interrupt cancels the current
// run and discards its partial output.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCommand := createRootCommand(defaultDependencies())
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies commandDependencies) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			return command.Help()
		},
	}
	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createRunCommand(dependencies),
		createInitCommand(dependencies),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// confirm asks question on output and reads a yes/no answer from input.
// Anything but y or yes, including end of input, is a no.
func confirm(input *bufio.Reader, output io.Writer, question string) (bool, error) {
	fmt.Fprintf(output, confirmationPromptFormat, question)
	answer, readError := input.ReadString('\n')
	if readError != nil && readError != io.EOF {
		return false, readError
	}
	_, affirmative := affirmativeAnswers[strings.ToLower(strings.TrimSpace(answer))]
	return affirmative, nil
}

func resolveWorkingDirectory(dependencies commandDependencies) (string, error) {
	workingDirectory, workingDirectoryError := dependencies.workingDirectory()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryFormat, workingDirectoryError)
	}
	return workingDirectory, nil
}

func rootArgument(arguments []string) string {
	if len(arguments) == 0 {
		return defaultPath
	}
	return arguments[0]
}
