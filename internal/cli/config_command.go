package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tyemirov/folder2chat/internal/config"
)

const (
	configUse                  = "config"
	configShortDescription     = "manage the application configuration file"
	configInitUse              = "init"
	configInitDescription      = "write the default application configuration"
	globalFlagName             = "global"
	globalFlagDescription      = "write to the global configuration directory instead of the working directory"
	forceFlagName              = "force"
	forceFlagDescription       = "overwrite an existing configuration file"
	configurationWrittenFormat = "Configuration written to %s\n"
)

func (app *application) createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	var writeGlobal bool
	var overwrite bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			destinationPath, initErr := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            overwrite,
				WorkingDirectory: app.options.WorkingDirectory,
				HomeDirectory:    app.options.HomeDirectory,
			})
			if initErr != nil {
				return initErr
			}
			_, printErr := fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, destinationPath)
			return printErr
		},
	}
	registerToggleFlag(initCommand.Flags(), &writeGlobal, globalFlagName, false, globalFlagDescription)
	registerToggleFlag(initCommand.Flags(), &overwrite, forceFlagName, false, forceFlagDescription)
	configCommand.AddCommand(initCommand)
	return configCommand
}
