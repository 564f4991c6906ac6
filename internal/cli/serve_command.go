package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/folder2chat/internal/commands"
	"github.com/tyemirov/folder2chat/internal/config"
	"github.com/tyemirov/folder2chat/internal/services/httpapi"
	"github.com/tyemirov/folder2chat/internal/services/mcp"
	"github.com/tyemirov/folder2chat/internal/utils"
)

const (
	serveUse              = "serve"
	serveShortDescription = "serve the tree, report and settings endpoints over HTTP"
	serveLongDescription  = `Start the HTTP API used by the browser front end:
GET/POST /config, GET /browse-folder, GET /directory-tree and POST /generate-report.
Every request runs under the configured request timeout.`

	mcpUse              = "mcp"
	mcpShortDescription = "serve the directory_tree, directory_outline and generate_report tools over MCP stdio"

	addressFlagName        = "address"
	addressFlagDescription = "listen address"

	logServing = "Serving"
)

type serviceDefaults struct {
	itemLimit int
	ordering  commands.Ordering
	policy    commands.ExtensionPolicy
}

// serviceDefaults derives the tree and report defaults shared by the HTTP and MCP front ends.
func (app *application) serviceDefaults() (serviceDefaults, error) {
	defaults := serviceDefaults{itemLimit: commands.DefaultItemLimit}
	if app.configuration.Tree.Limit != nil {
		defaults.itemLimit = *app.configuration.Tree.Limit
	}
	ordering, orderingErr := commands.ParseOrdering(app.configuration.Tree.Ordering)
	if orderingErr != nil {
		return serviceDefaults{}, orderingErr
	}
	policy, policyErr := commands.ParseExtensionPolicy(app.configuration.Report.Policy)
	if policyErr != nil {
		return serviceDefaults{}, policyErr
	}
	defaults.ordering = ordering
	defaults.policy = policy
	return defaults, nil
}

func (app *application) createServeCommand() *cobra.Command {
	var address string

	serveCommand := &cobra.Command{
		Use:   serveUse,
		Short: serveShortDescription,
		Long:  serveLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if loadErr := app.load(); loadErr != nil {
				return loadErr
			}
			defaults, defaultsErr := app.serviceDefaults()
			if defaultsErr != nil {
				return defaultsErr
			}
			if !command.Flags().Changed(addressFlagName) && app.configuration.Server.Address != "" {
				address = app.configuration.Server.Address
			}

			server := httpapi.NewServer(httpapi.Config{
				Address:        address,
				RequestTimeout: app.configuration.Server.RequestTimeout,
				Store:          app.store,
				Picker:         app.options.Picker,
				Logger:         app.options.Logger,
				ItemLimit:      defaults.itemLimit,
				Ordering:       defaults.ordering,
				Policy:         defaults.policy,
			})
			ctx, stop := signalContext(command.Context())
			defer stop()
			return server.Run(ctx, func(boundAddress string) {
				app.options.Logger.Info(logServing, zap.String("url", "http://"+boundAddress))
			})
		},
	}
	serveCommand.Flags().StringVar(&address, addressFlagName, config.DefaultServerAddress, addressFlagDescription)
	return serveCommand
}

func (app *application) createMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   mcpUse,
		Short: mcpShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if loadErr := app.load(); loadErr != nil {
				return loadErr
			}
			defaults, defaultsErr := app.serviceDefaults()
			if defaultsErr != nil {
				return defaultsErr
			}
			server := mcp.NewServer(mcp.Config{
				Name:      utils.ApplicationName,
				Version:   utils.GetApplicationVersion(),
				Store:     app.store,
				Logger:    app.options.Logger,
				ItemLimit: defaults.itemLimit,
				Ordering:  defaults.ordering,
				Policy:    defaults.policy,
			})
			ctx, stop := signalContext(command.Context())
			defer stop()
			return server.Run(ctx)
		},
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
