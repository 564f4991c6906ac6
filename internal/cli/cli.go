// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/folder2chat/internal/config"
	"github.com/tyemirov/folder2chat/internal/services/clipboard"
	"github.com/tyemirov/folder2chat/internal/services/picker"
	"github.com/tyemirov/folder2chat/internal/tokenizer"
	"github.com/tyemirov/folder2chat/internal/utils"
)

const (
	rootUse              = utils.ApplicationName
	rootShortDescription = "folder2chat command line interface"
	rootLongDescription  = `folder2chat turns a folder into text you can paste into a chat.
It lists the recognized text files of a directory as a tree, renders an outline
of everything that is not excluded, and concatenates selected files into a
single report of fenced blocks. The same operations are served over HTTP
(serve) and as MCP tools (mcp).`
	versionTemplate = utils.ApplicationName + " version: {{.Version}}\n"

	configFlagName        = "config"
	configFlagDescription = "path to an application configuration file"

	defaultPath = "."

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	warningSettingsLoad         = "Using default filters"
)

// Options customizes the collaborators of the command tree.
type Options struct {
	Logger           *zap.Logger
	Copier           clipboard.Copier
	Picker           picker.Picker
	NewCounter       func(tokenizer.Config) (tokenizer.Counter, string, error)
	WorkingDirectory string
	HomeDirectory    string
}

// application holds the state shared by every subcommand of one invocation.
type application struct {
	options           Options
	configurationPath string

	workingDirectory string
	configuration    config.ApplicationConfiguration
	store            *config.SettingsStore
}

// Execute runs the folder2chat application.
func Execute(ctx context.Context, logger *zap.Logger) error {
	rootCommand := NewRootCommand(Options{Logger: logger})
	rootCommand.SetArgs(joinToggleFlagValues(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// NewRootCommand builds the root Cobra command and its subcommands.
func NewRootCommand(options Options) *cobra.Command {
	app := &application{options: options}
	app.options.Logger = utils.LoggerOrNop(options.Logger)
	if app.options.Copier == nil {
		app.options.Copier = clipboard.NewService()
	}
	if app.options.Picker == nil {
		app.options.Picker = picker.NewDialogPicker()
	}
	if app.options.NewCounter == nil {
		app.options.NewCounter = tokenizer.NewCounter
	}

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Version:      utils.GetApplicationVersion(),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.PersistentFlags().StringVar(&app.configurationPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		app.createTreeCommand(),
		app.createOutlineCommand(),
		app.createReportCommand(),
		app.createSettingsCommand(),
		app.createServeCommand(),
		app.createMCPCommand(),
		app.createConfigCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// load resolves the working directory, the application configuration and
// the filter settings. A settings file that cannot be read leaves the
// default filters active and is reported as a warning.
func (app *application) load() error {
	if app.store != nil {
		return nil
	}
	workingDirectory := app.options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return fmt.Errorf(workingDirectoryErrorFormat, err)
		}
		workingDirectory = currentDirectory
	}

	loadedConfiguration, loadErr := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		HomeDirectory:    app.options.HomeDirectory,
		ExplicitFilePath: app.configurationPath,
	})
	if loadErr != nil {
		return loadErr
	}
	loadedConfiguration, loadErr = config.ApplyEnvironment(loadedConfiguration, workingDirectory)
	if loadErr != nil {
		return loadErr
	}

	store := config.NewSettingsStore(app.settingsFilePath(loadedConfiguration.SettingsFile, workingDirectory), app.options.Logger)
	if settingsErr := store.Load(); settingsErr != nil {
		app.options.Logger.Warn(warningSettingsLoad, zap.String("path", store.Path()), zap.Error(settingsErr))
	}

	app.workingDirectory = workingDirectory
	app.configuration = loadedConfiguration
	app.store = store
	return nil
}

// settingsFilePath returns the configured settings file, or the default
// location inside the global configuration directory.
func (app *application) settingsFilePath(configured string, workingDirectory string) string {
	if configured != "" {
		return configured
	}
	homeDirectory := app.options.HomeDirectory
	if homeDirectory == "" {
		resolvedHome, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(workingDirectory, utils.SettingsFileName)
		}
		homeDirectory = resolvedHome
	}
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.SettingsFileName)
}

// absolutePath resolves path against the invocation's working directory.
func (app *application) absolutePath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(app.workingDirectory, path)
}
