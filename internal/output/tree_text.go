package output

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/folder2chat/internal/config"
	"github.com/tyemirov/folder2chat/internal/utils"
)

const warningListDirectory = "Error listing directory"

// RenderTreeText renders every entry below rootPath whose name is not
// excluded, like the Unix tree command without the root line. Recognized
// extensions and item limits do not apply. Entries are in byte order and
// subdirectories are expanded before their later siblings. Unreadable
// directories contribute no lines; an unreadable root yields "".
func RenderTreeText(rootPath string, filters config.Filters, logger *zap.Logger) string {
	var lines []string
	appendTreeTextLines(&lines, rootPath, "", filters, utils.LoggerOrNop(logger))
	return strings.Join(lines, "\n")
}

func appendTreeTextLines(lines *[]string, directoryPath string, prefix string, filters config.Filters, logger *zap.Logger) {
	// os.ReadDir returns entries sorted by name.
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		logger.Warn(warningListDirectory, zap.String("path", directoryPath), zap.Error(readDirectoryError))
		return
	}

	visibleEntries := directoryEntries[:0]
	for _, directoryEntry := range directoryEntries {
		if !filters.IsExcluded(directoryEntry.Name()) {
			visibleEntries = append(visibleEntries, directoryEntry)
		}
	}

	for index, directoryEntry := range visibleEntries {
		linePrefix, childPrefix := treeLinePrefix(prefix, index == len(visibleEntries)-1)
		*lines = append(*lines, linePrefix+directoryEntry.Name())
		if directoryEntry.IsDir() {
			appendTreeTextLines(lines, filepath.Join(directoryPath, directoryEntry.Name()), childPrefix, filters, logger)
		}
	}
}
