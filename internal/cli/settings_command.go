package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tyemirov/folder2chat/internal/config"
)

const (
	settingsUse              = "settings"
	settingsShortDescription = "show or change the recognized extensions and excluded names"
	settingsShowUse          = "show"
	settingsShowDescription  = "print the active filter settings as JSON"
	settingsSetUse           = "set"
	settingsSetDescription   = "replace one or both filter lists and persist them"
	settingsSetExample       = `  # Recognize Go and Markdown files only
  folder2chat settings set --ext .go --ext md

  # Exclude vendor and dist directories, keeping the extensions
  folder2chat settings set --exclude vendor,dist`

	extensionsFlagName        = "ext"
	extensionsFlagDescription = "recognized extension (repeatable, replaces the list)"
	excludeFlagName           = "exclude"
	excludeFlagDescription    = "excluded name (repeatable, replaces the list)"

	errorNothingToSet = "nothing to change: pass --ext and/or --exclude"
)

func (app *application) createSettingsCommand() *cobra.Command {
	settingsCommand := &cobra.Command{
		Use:   settingsUse,
		Short: settingsShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	settingsCommand.AddCommand(app.createSettingsShowCommand(), app.createSettingsSetCommand())
	return settingsCommand
}

func (app *application) createSettingsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   settingsShowUse,
		Short: settingsShowDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if loadErr := app.load(); loadErr != nil {
				return loadErr
			}
			return printSettings(command, app.store.Current())
		},
	}
}

func (app *application) createSettingsSetCommand() *cobra.Command {
	var extensions []string
	var excludedNames []string

	setCommand := &cobra.Command{
		Use:     settingsSetUse,
		Short:   settingsSetDescription,
		Example: settingsSetExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			extensionsChanged := command.Flags().Changed(extensionsFlagName)
			excludedChanged := command.Flags().Changed(excludeFlagName)
			if !extensionsChanged && !excludedChanged {
				return errors.New(errorNothingToSet)
			}
			if loadErr := app.load(); loadErr != nil {
				return loadErr
			}

			document := config.DocumentFromFilters(app.store.Current())
			if extensionsChanged {
				document.TextExtensions = extensions
			}
			if excludedChanged {
				document.ExcludedFolders = excludedNames
			}
			if replaceErr := app.store.Replace(document.Filters()); replaceErr != nil {
				return replaceErr
			}
			return printSettings(command, app.store.Current())
		},
	}
	setCommand.Flags().StringSliceVar(&extensions, extensionsFlagName, nil, extensionsFlagDescription)
	setCommand.Flags().StringSliceVar(&excludedNames, excludeFlagName, nil, excludeFlagDescription)
	return setCommand
}

func printSettings(command *cobra.Command, filters config.Filters) error {
	encoded, encodeErr := json.MarshalIndent(config.DocumentFromFilters(filters), "", "  ")
	if encodeErr != nil {
		return encodeErr
	}
	_, printErr := fmt.Fprintln(command.OutOrStdout(), string(encoded))
	return printErr
}
