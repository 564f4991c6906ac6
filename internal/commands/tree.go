// Package commands contains the core logic behind the tree and report operations.
package commands

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/tyemirov/folder2chat/internal/config"
	"github.com/tyemirov/folder2chat/internal/types"
	"github.com/tyemirov/folder2chat/internal/utils"
)

// warningListDirectory is logged when a directory's entries cannot be read.
const warningListDirectory = "Skipping unreadable directory"

// Build returns the tree rooted at rootPath. A rootPath that is not an
// existing directory yields a single file node and no error. Unreadable
// directories become nodes without children. The only error returned is the
// cancellation of ctx.
func (treeBuilder TreeBuilder) Build(ctx context.Context, rootPath string) (*types.TreeNode, error) {
	cleanedRootPath := filepath.Clean(rootPath)
	if !utils.IsDirectory(cleanedRootPath) {
		return &types.TreeNode{
			Name: filepath.Base(cleanedRootPath),
			Path: cleanedRootPath,
			Type: types.NodeTypeFile,
		}, nil
	}

	walk := treeWalk{
		filters:  treeBuilder.Filters,
		limit:    treeBuilder.ItemLimit,
		ordering: treeBuilder.Ordering,
		logger:   utils.LoggerOrNop(treeBuilder.Logger),
		folder:   cases.Fold(),
		readDir:  treeBuilder.ReadDirectory,
	}
	if walk.readDir == nil {
		walk.readDir = os.ReadDir
	}
	return walk.buildDirectory(ctx, filepath.Base(cleanedRootPath), cleanedRootPath)
}

// treeWalk carries the per-call state of one Build invocation.
type treeWalk struct {
	filters  config.Filters
	limit    int
	ordering Ordering
	logger   *zap.Logger
	folder   cases.Caser
	readDir  func(directoryPath string) ([]os.DirEntry, error)
}

type orderedEntry struct {
	name        string
	foldedName  string
	isDirectory bool
}

func (walk *treeWalk) buildDirectory(ctx context.Context, name string, directoryPath string) (*types.TreeNode, error) {
	if contextError := ctx.Err(); contextError != nil {
		return nil, contextError
	}

	node := &types.TreeNode{
		Name:     name,
		Path:     directoryPath,
		Type:     types.NodeTypeDirectory,
		Children: []*types.TreeNode{},
	}

	directoryEntries, readDirectoryError := walk.readDir(directoryPath)
	if readDirectoryError != nil {
		walk.logger.Warn(warningListDirectory, zap.String("path", directoryPath), zap.Error(readDirectoryError))
		return node, nil
	}

	for _, entry := range walk.orderEntries(directoryEntries) {
		if walk.limit > 0 && len(node.Children) >= walk.limit {
			break
		}
		childPath := filepath.Join(directoryPath, entry.name)
		if entry.isDirectory {
			childNode, buildError := walk.buildDirectory(ctx, entry.name, childPath)
			if buildError != nil {
				return nil, buildError
			}
			node.Children = append(node.Children, childNode)
			continue
		}
		if !walk.filters.IsRecognized(entry.name) {
			continue
		}
		node.Children = append(node.Children, &types.TreeNode{
			Name: entry.name,
			Path: childPath,
			Type: types.NodeTypeFile,
		})
	}
	return node, nil
}

// orderEntries drops excluded names and sorts the rest by the walk's ordering.
// Case-folded names decide first; the raw name breaks ties so the order is total.
func (walk *treeWalk) orderEntries(directoryEntries []os.DirEntry) []orderedEntry {
	entries := make([]orderedEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		name := directoryEntry.Name()
		if walk.filters.IsExcluded(name) {
			continue
		}
		entries = append(entries, orderedEntry{
			name:        name,
			foldedName:  walk.folder.String(name),
			isDirectory: directoryEntry.IsDir(),
		})
	}

	directoriesFirst := walk.ordering != OrderAlphabetical
	sort.Slice(entries, func(left, right int) bool {
		if directoriesFirst && entries[left].isDirectory != entries[right].isDirectory {
			return entries[left].isDirectory
		}
		if entries[left].foldedName != entries[right].foldedName {
			return entries[left].foldedName < entries[right].foldedName
		}
		return entries[left].name < entries[right].name
	})
	return entries
}
