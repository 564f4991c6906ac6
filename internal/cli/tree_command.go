package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tyemirov/folder2chat/internal/commands"
	"github.com/tyemirov/folder2chat/internal/output"
	"github.com/tyemirov/folder2chat/internal/types"
	"github.com/tyemirov/folder2chat/internal/utils"
)

const (
	treeUse              = "tree [path]"
	treeAlias            = "t"
	treeShortDescription = "display the filtered directory tree (" + treeAlias + ")"
	treeLongDescription  = `Build the directory tree of a folder. Excluded names are skipped,
subdirectories are always listed, files only when their extension is recognized,
and every directory level holds at most --limit entries.`
	treeUsageExample = `  # Render the tree of the current directory as JSON
  folder2chat tree

  # Raw rendering with at most 20 entries per level
  folder2chat t --format raw --limit 20 ./src`

	outlineUse              = "outline [path]"
	outlineShortDescription = "render every non-excluded entry like the tree command"
	outlineLongDescription  = `Render every entry below a folder whose name is not excluded,
in byte order, without the extension filter or the item limit. This is the
rendering used by the report's Directory Tree section.`

	limitFlagName            = "limit"
	limitFlagDescription     = "maximum entries per directory level (0 for unlimited)"
	orderFlagName            = "order"
	orderFlagDescription     = "child ordering: directories-first or alphabetical"
	formatFlagName           = "format"
	formatFlagDescription    = "output format: json or raw"
	invalidFormatMessage     = "invalid format value '%s'"
	errorNotADirectoryFormat = "%w: %s"
)

func (app *application) createTreeCommand() *cobra.Command {
	var itemLimit int
	var orderingValue string
	var outputFormat string

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			if loadErr := app.load(); loadErr != nil {
				return loadErr
			}
			treeConfiguration := app.configuration.Tree
			if !command.Flags().Changed(limitFlagName) && treeConfiguration.Limit != nil {
				itemLimit = *treeConfiguration.Limit
			}
			if !command.Flags().Changed(orderFlagName) && treeConfiguration.Ordering != "" {
				orderingValue = treeConfiguration.Ordering
			}
			if !command.Flags().Changed(formatFlagName) && treeConfiguration.Format != "" {
				outputFormat = treeConfiguration.Format
			}

			ordering, orderingErr := commands.ParseOrdering(orderingValue)
			if orderingErr != nil {
				return orderingErr
			}
			format := strings.ToLower(strings.TrimSpace(outputFormat))
			if format != types.FormatJSON && format != types.FormatRaw {
				return fmt.Errorf(invalidFormatMessage, outputFormat)
			}
			rootPath, rootErr := app.directoryArgument(arguments)
			if rootErr != nil {
				return rootErr
			}

			treeBuilder := commands.TreeBuilder{
				Filters:   app.store.Current(),
				ItemLimit: itemLimit,
				Ordering:  ordering,
				Logger:    app.options.Logger,
			}
			tree, buildErr := treeBuilder.Build(command.Context(), rootPath)
			if buildErr != nil {
				return buildErr
			}
			if format == types.FormatRaw {
				output.WriteTreeRaw(command.OutOrStdout(), tree)
				return nil
			}
			rendered, renderErr := output.RenderTreeJSON(tree)
			if renderErr != nil {
				return renderErr
			}
			_, printErr := fmt.Fprintln(command.OutOrStdout(), rendered)
			return printErr
		},
	}

	treeCommand.Flags().IntVar(&itemLimit, limitFlagName, commands.DefaultItemLimit, limitFlagDescription)
	treeCommand.Flags().StringVar(&orderingValue, orderFlagName, string(commands.OrderDirectoriesFirst), orderFlagDescription)
	treeCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatJSON, formatFlagDescription)
	return treeCommand
}

func (app *application) createOutlineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   outlineUse,
		Short: outlineShortDescription,
		Long:  outlineLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			if loadErr := app.load(); loadErr != nil {
				return loadErr
			}
			rootPath, rootErr := app.directoryArgument(arguments)
			if rootErr != nil {
				return rootErr
			}
			writer := command.OutOrStdout()
			fmt.Fprintln(writer, rootPath)
			if outline := output.RenderTreeText(rootPath, app.store.Current(), app.options.Logger); outline != "" {
				fmt.Fprintln(writer, outline)
			}
			return nil
		},
	}
}

// directoryArgument resolves the optional path argument, defaulting to the working directory.
func (app *application) directoryArgument(arguments []string) (string, error) {
	path := defaultPath
	if len(arguments) > 0 {
		path = arguments[0]
	}
	absolutePath := app.absolutePath(path)
	if !utils.IsDirectory(absolutePath) {
		return "", fmt.Errorf(errorNotADirectoryFormat, commands.ErrNotADirectory, path)
	}
	return absolutePath, nil
}
