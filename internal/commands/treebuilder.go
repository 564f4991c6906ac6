package commands

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/folder2chat/internal/config"
)

// Ordering selects how the children of a directory node are arranged.
type Ordering string

const (
	// OrderDirectoriesFirst places subdirectories before files, each group case-insensitively alphabetical.
	OrderDirectoriesFirst Ordering = "directories-first"
	// OrderAlphabetical interleaves directories and files case-insensitively alphabetically.
	OrderAlphabetical Ordering = "alphabetical"

	// DefaultItemLimit is the per-directory child cap used by the service front ends.
	DefaultItemLimit = 100

	errorUnknownOrderingFormat = "unknown ordering %q (expected %s or %s)"
)

// ParseOrdering converts a configuration value into an Ordering. Empty selects OrderDirectoriesFirst.
func ParseOrdering(value string) (Ordering, error) {
	switch Ordering(strings.ToLower(strings.TrimSpace(value))) {
	case "", OrderDirectoriesFirst:
		return OrderDirectoriesFirst, nil
	case OrderAlphabetical:
		return OrderAlphabetical, nil
	default:
		return "", fmt.Errorf(errorUnknownOrderingFormat, value, OrderDirectoriesFirst, OrderAlphabetical)
	}
}

// TreeBuilder builds directory trees restricted to recognized text files.
// ItemLimit caps the accepted children of every directory independently; zero
// or a negative value means unlimited.
type TreeBuilder struct {
	Filters   config.Filters
	ItemLimit int
	Ordering  Ordering
	Logger    *zap.Logger
	// ReadDirectory lists a directory; nil uses os.ReadDir.
	ReadDirectory func(directoryPath string) ([]os.DirEntry, error)
}
