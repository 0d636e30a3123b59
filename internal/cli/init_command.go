package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/codegather/internal/config"
	"github.com/temirov/codegather/internal/types"
	"github.com/temirov/codegather/internal/utils"
)

const (
	initUse              = types.CommandInit + " [root]"
	initShortDescription = "create " + utils.ConfigFileName + " and a session prompt template"
	initUsageExample     = `  # Scaffold configuration in the current directory
  codegather init

  # Replace existing files without asking
  codegather init ./service --force`

	forceFlagName        = "force"
	forceFlagShorthand   = "f"
	forceFlagDescription = "overwrite existing files without asking"

	overwriteQuestionFormat = "%s already exists. Overwrite?"
	initResultFormat        = "%s %s: %s\n"
)

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies commandDependencies) *cobra.Command {
	var force bool

	initCommand := &cobra.Command{
		Use:     initUse,
		Short:   initShortDescription,
		Example: initUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := resolveWorkingDirectory(dependencies)
			if workingDirectoryError != nil {
				return workingDirectoryError
			}
			answers := bufio.NewReader(command.InOrStdin())
			results, initError := config.InitializeProject(config.InitOptions{
				Root:  utils.ResolveAgainst(workingDirectory, rootArgument(arguments)),
				Force: force,
				ConfirmOverwrite: func(path string) (bool, error) {
					return confirm(answers, command.ErrOrStderr(), fmt.Sprintf(overwriteQuestionFormat, path))
				},
			})
			for _, result := range results {
				fmt.Fprintf(command.OutOrStdout(), initResultFormat, result.Action, result.Label, result.Path)
			}
			return initError
		},
	}
	initCommand.Flags().BoolVarP(&force, forceFlagName, forceFlagShorthand, false, forceFlagDescription)
	return initCommand
}
