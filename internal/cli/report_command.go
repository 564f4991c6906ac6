package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/folder2chat/internal/commands"
	"github.com/tyemirov/folder2chat/internal/output"
	"github.com/tyemirov/folder2chat/internal/tokenizer"
)

const (
	reportUse              = "report [files...]"
	reportAlias            = "r"
	reportShortDescription = "concatenate files into one report (" + reportAlias + ")"
	reportLongDescription  = `Concatenate the listed files into a single report of fenced blocks,
in the order given. Files are labeled relative to --root when they live under it.
Missing paths and directories are skipped. Use --tree to prefix the report with
the outline of --root, and --files-json to pass the file list as a JSON array.`
	reportUsageExample = `  # Report two files labeled relative to the project
  folder2chat report --root . main.go internal/app.go

  # Include the directory tree and copy the report to the clipboard
  folder2chat r --root ~/proj --tree --clipboard ~/proj/a.py`

	rootFlagName             = "root"
	rootFlagDescription      = "folder used for relative labels and the tree section"
	treeFlagName             = "tree"
	treeFlagDescription      = "prefix the report with the directory tree of --root"
	filesJSONFlagName        = "files-json"
	filesJSONFlagDescription = "JSON array of file paths appended to the positional files"
	policyFlagName           = "policy"
	policyFlagDescription    = "extension policy: all or recognized"
	tokensFlagName           = "tokens"
	tokensFlagDescription    = "count the report's tokens"
	modelFlagName            = "model"
	modelFlagDescription     = "tokenizer model to use for token counting"
	clipboardFlagName        = "clipboard"
	clipboardFlagDescription = "copy the report to the clipboard"

	logReportCopied = "Report copied to clipboard"
)

type reportOptions struct {
	rootPath        string
	includeTree     bool
	filesJSON       string
	policy          string
	tokensEnabled   bool
	tokenModel      string
	copyToClipboard bool
}

func (app *application) createReportCommand() *cobra.Command {
	var options reportOptions

	reportCommand := &cobra.Command{
		Use:     reportUse,
		Aliases: []string{reportAlias},
		Short:   reportShortDescription,
		Long:    reportLongDescription,
		Example: reportUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if loadErr := app.load(); loadErr != nil {
				return loadErr
			}
			app.applyReportDefaults(command, &options)
			return app.runReport(command, arguments, options)
		},
	}

	flags := reportCommand.Flags()
	flags.StringVar(&options.rootPath, rootFlagName, "", rootFlagDescription)
	registerToggleFlag(flags, &options.includeTree, treeFlagName, false, treeFlagDescription)
	flags.StringVar(&options.filesJSON, filesJSONFlagName, "", filesJSONFlagDescription)
	flags.StringVar(&options.policy, policyFlagName, string(commands.ReportAllFiles), policyFlagDescription)
	registerToggleFlag(flags, &options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	flags.StringVar(&options.tokenModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerToggleFlag(flags, &options.copyToClipboard, clipboardFlagName, false, clipboardFlagDescription)
	return reportCommand
}

// applyReportDefaults fills every flag the user did not set from the application configuration.
func (app *application) applyReportDefaults(command *cobra.Command, options *reportOptions) {
	reportConfiguration := app.configuration.Report
	flags := command.Flags()
	if !flags.Changed(treeFlagName) && reportConfiguration.IncludeTree != nil {
		options.includeTree = *reportConfiguration.IncludeTree
	}
	if !flags.Changed(policyFlagName) && reportConfiguration.Policy != "" {
		options.policy = reportConfiguration.Policy
	}
	if !flags.Changed(tokensFlagName) && reportConfiguration.Tokens.Enabled != nil {
		options.tokensEnabled = *reportConfiguration.Tokens.Enabled
	}
	if !flags.Changed(modelFlagName) && reportConfiguration.Tokens.Model != "" {
		options.tokenModel = reportConfiguration.Tokens.Model
	}
	if !flags.Changed(clipboardFlagName) && reportConfiguration.Clipboard != nil {
		options.copyToClipboard = *reportConfiguration.Clipboard
	}
}

func (app *application) runReport(command *cobra.Command, arguments []string, options reportOptions) error {
	policy, policyErr := commands.ParseExtensionPolicy(options.policy)
	if policyErr != nil {
		return policyErr
	}

	filePaths := append([]string{}, arguments...)
	if options.filesJSON != "" {
		listedPaths, listErr := commands.ParseFileList(options.filesJSON)
		if listErr != nil {
			return listErr
		}
		filePaths = append(filePaths, listedPaths...)
	}
	for index, filePath := range filePaths {
		filePaths[index] = app.absolutePath(filePath)
	}

	reportGenerator := commands.ReportGenerator{
		Filters: app.store.Current(),
		Policy:  policy,
		Logger:  app.options.Logger,
	}
	if options.tokensEnabled {
		counter, resolvedModel, counterErr := app.options.NewCounter(tokenizer.Config{Model: options.tokenModel})
		if counterErr != nil {
			return counterErr
		}
		reportGenerator.TokenCounter = counter
		reportGenerator.TokenModel = resolvedModel
	}

	result, generateErr := reportGenerator.Generate(command.Context(), commands.ReportRequest{
		FilePaths:   filePaths,
		RootPath:    app.absolutePath(options.rootPath),
		IncludeTree: options.includeTree,
	})
	if generateErr != nil {
		return generateErr
	}

	if _, printErr := fmt.Fprintln(command.OutOrStdout(), result.Text); printErr != nil {
		return printErr
	}
	fmt.Fprintln(command.ErrOrStderr(), output.FormatSummaryLine(result.Summary))

	if options.copyToClipboard {
		if copyErr := app.options.Copier.Copy(result.Text); copyErr != nil {
			return copyErr
		}
		app.options.Logger.Info(logReportCopied, zap.Int("bytes", len(result.Text)))
	}
	return nil
}
