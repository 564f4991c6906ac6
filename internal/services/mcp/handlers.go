package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tyemirov/folder2chat/internal/commands"
	"github.com/tyemirov/folder2chat/internal/output"
	"github.com/tyemirov/folder2chat/internal/types"
	"github.com/tyemirov/folder2chat/internal/utils"
)

const (
	errorNotADirectoryFormat = "%w: %s"
	errorUnknownFormatFormat = "unknown format %q (expected %s or %s)"
	unlimitedItems           = 0
)

func (server *Server) handleDirectoryTree(ctx context.Context, _ *mcpsdk.CallToolRequest, input DirectoryTreeInput) (*mcpsdk.CallToolResult, DirectoryTreeOutput, error) {
	folder := strings.TrimSpace(input.Path)
	if !utils.IsDirectory(folder) {
		return &mcpsdk.CallToolResult{IsError: true}, DirectoryTreeOutput{}, fmt.Errorf(errorNotADirectoryFormat, commands.ErrNotADirectory, folder)
	}

	ordering := server.config.Ordering
	if input.Ordering != "" {
		parsedOrdering, orderingError := commands.ParseOrdering(input.Ordering)
		if orderingError != nil {
			return &mcpsdk.CallToolResult{IsError: true}, DirectoryTreeOutput{}, orderingError
		}
		ordering = parsedOrdering
	}
	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format == "" {
		format = types.FormatJSON
	}
	if format != types.FormatJSON && format != types.FormatRaw {
		return &mcpsdk.CallToolResult{IsError: true}, DirectoryTreeOutput{}, fmt.Errorf(errorUnknownFormatFormat, input.Format, types.FormatJSON, types.FormatRaw)
	}

	treeBuilder := commands.TreeBuilder{
		Filters:   server.config.Store.Current(),
		ItemLimit: itemLimit(input.Limit, server.config.ItemLimit),
		Ordering:  ordering,
		Logger:    server.config.Logger,
	}
	tree, buildError := treeBuilder.Build(ctx, folder)
	if buildError != nil {
		return &mcpsdk.CallToolResult{IsError: true}, DirectoryTreeOutput{}, buildError
	}

	rendered, renderError := renderTree(tree, format)
	if renderError != nil {
		return &mcpsdk.CallToolResult{IsError: true}, DirectoryTreeOutput{}, renderError
	}
	return nil, DirectoryTreeOutput{Path: tree.Path, Format: format, Tree: rendered}, nil
}

func (server *Server) handleDirectoryOutline(_ context.Context, _ *mcpsdk.CallToolRequest, input DirectoryOutlineInput) (*mcpsdk.CallToolResult, DirectoryOutlineOutput, error) {
	folder := strings.TrimSpace(input.Path)
	if !utils.IsDirectory(folder) {
		return &mcpsdk.CallToolResult{IsError: true}, DirectoryOutlineOutput{}, fmt.Errorf(errorNotADirectoryFormat, commands.ErrNotADirectory, folder)
	}
	outline := output.RenderTreeText(folder, server.config.Store.Current(), server.config.Logger)
	return nil, DirectoryOutlineOutput{Path: folder, Outline: outline}, nil
}

func (server *Server) handleGenerateReport(ctx context.Context, _ *mcpsdk.CallToolRequest, input GenerateReportInput) (*mcpsdk.CallToolResult, GenerateReportOutput, error) {
	policy := server.config.Policy
	if input.Policy != "" {
		parsedPolicy, policyError := commands.ParseExtensionPolicy(input.Policy)
		if policyError != nil {
			return &mcpsdk.CallToolResult{IsError: true}, GenerateReportOutput{}, policyError
		}
		policy = parsedPolicy
	}

	reportGenerator := commands.ReportGenerator{
		Filters: server.config.Store.Current(),
		Policy:  policy,
		Logger:  server.config.Logger,
	}
	result, generateError := reportGenerator.Generate(ctx, commands.ReportRequest{
		FilePaths:   input.Files,
		RootPath:    strings.TrimSpace(input.Root),
		IncludeTree: input.IncludeTree,
	})
	if generateError != nil {
		return &mcpsdk.CallToolResult{IsError: true}, GenerateReportOutput{}, generateError
	}
	return nil, GenerateReportOutput{
		Report:       result.Text,
		FilesEmitted: result.Summary.FilesEmitted,
		FilesSkipped: result.Summary.FilesSkipped,
		TotalSize:    result.Summary.TotalSize,
	}, nil
}

// itemLimit maps the tool's limit argument onto TreeBuilder.ItemLimit.
func itemLimit(requested int, fallback int) int {
	switch {
	case requested < 0:
		return unlimitedItems
	case requested == 0:
		return fallback
	default:
		return requested
	}
}

func renderTree(tree *types.TreeNode, format string) (string, error) {
	if format == types.FormatRaw {
		var builder strings.Builder
		output.WriteTreeRaw(&builder, tree)
		return builder.String(), nil
	}
	return output.RenderTreeJSON(tree)
}
