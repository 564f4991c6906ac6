// Package mcp exposes the tree, outline and report operations as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/tyemirov/folder2chat/internal/commands"
	"github.com/tyemirov/folder2chat/internal/config"
	"github.com/tyemirov/folder2chat/internal/utils"
)

const (
	toolDirectoryTree    = "directory_tree"
	toolDirectoryOutline = "directory_outline"
	toolGenerateReport   = "generate_report"

	descriptionDirectoryTree    = "Build the filtered directory tree of a folder. Excluded names are skipped, only recognized text files are listed and every directory level is capped by the item limit."
	descriptionDirectoryOutline = "Render every non-excluded entry below a folder like the Unix tree command."
	descriptionGenerateReport   = "Concatenate the contents of the listed files into one report of fenced blocks, optionally preceded by the folder's tree."

	logServing = "MCP server running on stdio"
)

// Config defines the collaborators of the tool server.
type Config struct {
	Name      string
	Version   string
	Store     *config.SettingsStore
	Logger    *zap.Logger
	ItemLimit int
	Ordering  commands.Ordering
	Policy    commands.ExtensionPolicy
}

// Server registers the folder tools on an MCP server.
type Server struct {
	config Config
}

// NewServer creates a new Server with defaults applied.
func NewServer(serverConfig Config) *Server {
	normalized := serverConfig
	if normalized.Name == "" {
		normalized.Name = utils.ApplicationName
	}
	if normalized.Store == nil {
		normalized.Store = config.NewSettingsStore("", normalized.Logger)
	}
	if normalized.ItemLimit == 0 {
		normalized.ItemLimit = commands.DefaultItemLimit
	}
	normalized.Logger = utils.LoggerOrNop(normalized.Logger)
	return &Server{config: normalized}
}

// Build returns the protocol server with every tool registered.
func (server *Server) Build() *mcpsdk.Server {
	protocolServer := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    server.config.Name,
		Version: server.config.Version,
	}, nil)

	mcpsdk.AddTool(protocolServer, &mcpsdk.Tool{
		Name:        toolDirectoryTree,
		Description: descriptionDirectoryTree,
	}, server.handleDirectoryTree)
	mcpsdk.AddTool(protocolServer, &mcpsdk.Tool{
		Name:        toolDirectoryOutline,
		Description: descriptionDirectoryOutline,
	}, server.handleDirectoryOutline)
	mcpsdk.AddTool(protocolServer, &mcpsdk.Tool{
		Name:        toolGenerateReport,
		Description: descriptionGenerateReport,
	}, server.handleGenerateReport)

	return protocolServer
}

// Run serves the tools on standard input and output until ctx is canceled or the client disconnects.
func (server *Server) Run(ctx context.Context) error {
	server.config.Logger.Debug(logServing)
	if runError := server.Build().Run(ctx, &mcpsdk.StdioTransport{}); runError != nil {
		return fmt.Errorf("run MCP server: %w", runError)
	}
	return nil
}
