// Package output renders trees and report summaries as text.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tyemirov/folder2chat/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix = "/"
)

// treeLinePrefix returns the connector for an entry and the prefix inherited by its children.
func treeLinePrefix(prefix string, isLast bool) (string, string) {
	if isLast {
		return prefix + treeLastConnector, prefix + treeLastPadding
	}
	return prefix + treeBranchConnector, prefix + treeBranchPadding
}

// RenderTreeJSON marshals a built tree as indented JSON.
func RenderTreeJSON(node *types.TreeNode) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(node, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// WriteTreeRaw renders a built tree: the root path on the first line, then one
// connector line per node with directories marked by a trailing slash.
func WriteTreeRaw(writer io.Writer, node *types.TreeNode) {
	if node == nil {
		return
	}
	fmt.Fprintln(writer, node.Path)
	writeTreeChildren(writer, node.Children, "")
}

func writeTreeChildren(writer io.Writer, children []*types.TreeNode, prefix string) {
	for index, child := range children {
		if child == nil {
			continue
		}
		linePrefix, childPrefix := treeLinePrefix(prefix, index == len(children)-1)
		if child.IsDirectory() {
			fmt.Fprintf(writer, "%s%s%s\n", linePrefix, child.Name, directorySuffix)
			writeTreeChildren(writer, child.Children, childPrefix)
			continue
		}
		fmt.Fprintf(writer, "%s%s\n", linePrefix, child.Name)
	}
}

// FormatSummaryLine formats a report summary for diagnostics output.
func FormatSummaryLine(summary types.ReportSummary) string {
	label := "files"
	if summary.FilesEmitted == 1 {
		label = "file"
	}
	skipped := ""
	if summary.FilesSkipped > 0 {
		skipped = fmt.Sprintf(" (%d skipped)", summary.FilesSkipped)
	}
	tokens := ""
	if summary.Tokens > 0 {
		tokens = fmt.Sprintf(", %d tokens", summary.Tokens)
		if summary.Model != "" {
			tokens += fmt.Sprintf(" (model: %s)", summary.Model)
		}
	}
	return fmt.Sprintf("Summary: %d %s%s, %s%s", summary.FilesEmitted, label, skipped, summary.TotalSize, tokens)
}
