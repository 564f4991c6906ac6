// Package types defines every cross‑package data structure used by folder2chat.
package types

import "encoding/json"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	CommandTree    = "tree"
	CommandOutline = "outline"
	CommandReport  = "report"

	FormatRaw  = "raw"
	FormatJSON = "json"
)

// TreeNode is one filesystem entry of a built directory tree.
// Children is non-nil for directories and nil for files.
type TreeNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Type     string      `json:"type"`
	Children []*TreeNode `json:"children,omitempty"`
}

// IsDirectory reports whether the node represents a directory.
func (node *TreeNode) IsDirectory() bool {
	return node != nil && node.Type == NodeTypeDirectory
}

// MarshalJSON always emits children for directories, as an empty array when
// nothing qualified, and never for files.
func (node TreeNode) MarshalJSON() ([]byte, error) {
	type plainNode TreeNode
	if node.Type != NodeTypeDirectory {
		plain := plainNode(node)
		plain.Children = nil
		return json.Marshal(plain)
	}
	children := node.Children
	if children == nil {
		children = []*TreeNode{}
	}
	return json.Marshal(struct {
		Name     string      `json:"name"`
		Path     string      `json:"path"`
		Type     string      `json:"type"`
		Children []*TreeNode `json:"children"`
	}{Name: node.Name, Path: node.Path, Type: node.Type, Children: children})
}

// ReportSummary describes what went into a generated report.
type ReportSummary struct {
	FilesEmitted int    `json:"filesEmitted"`
	FilesSkipped int    `json:"filesSkipped"`
	BytesRead    int64  `json:"bytesRead"`
	TotalSize    string `json:"totalSize"`
	Tokens       int    `json:"tokens,omitempty"`
	Model        string `json:"model,omitempty"`
}
