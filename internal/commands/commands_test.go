package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tyemirov/folder2chat/internal/commands"
	"github.com/tyemirov/folder2chat/internal/config"
	"github.com/tyemirov/folder2chat/internal/types"
)

func writeFixtureFile(testingHandle *testing.T, path string, content string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(filepath.Dir(path), 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir %s: %v", filepath.Dir(path), makeDirError)
	}
	if writeError := os.WriteFile(path, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("write %s: %v", path, writeError)
	}
}

func makeFixtureDirectory(testingHandle *testing.T, path string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(path, 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir %s: %v", path, makeDirError)
	}
}

func childNames(node *types.TreeNode) []string {
	names := make([]string, 0, len(node.Children))
	for _, child := range node.Children {
		names = append(names, child.Name)
	}
	return names
}

func buildTree(testingHandle *testing.T, treeBuilder commands.TreeBuilder, rootPath string) *types.TreeNode {
	testingHandle.Helper()
	node, buildError := treeBuilder.Build(context.Background(), rootPath)
	if buildError != nil {
		testingHandle.Fatalf("Build(%s) error: %v", rootPath, buildError)
	}
	return node
}

// TestTreeBuilderProjectLayout verifies the tree of a small project with exclusions and unrecognized files.
func TestTreeBuilderProjectLayout(testingHandle *testing.T) {
	rootDirectory := filepath.Join(testingHandle.TempDir(), "proj")
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "a.py"), "print(1)\n")
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "b.bin"), "\x00")
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "node_modules", "x.js"), "x")
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "src", "c.md"), "# c")

	treeBuilder := commands.TreeBuilder{Filters: config.DefaultFilters(), ItemLimit: commands.DefaultItemLimit}
	rootNode := buildTree(testingHandle, treeBuilder, rootDirectory)

	if rootNode.Name != "proj" || rootNode.Path != rootDirectory || !rootNode.IsDirectory() {
		testingHandle.Fatalf("unexpected root node: %+v", rootNode)
	}
	if got := strings.Join(childNames(rootNode), ","); got != "src,a.py" {
		testingHandle.Fatalf("root children = %s, want src,a.py", got)
	}
	sourceNode := rootNode.Children[0]
	if sourceNode.Path != filepath.Join(rootDirectory, "src") || len(sourceNode.Children) != 1 {
		testingHandle.Fatalf("unexpected src node: %+v", sourceNode)
	}
	markdownNode := sourceNode.Children[0]
	if markdownNode.Type != types.NodeTypeFile || markdownNode.Children != nil {
		testingHandle.Fatalf("file node must not carry children: %+v", markdownNode)
	}
}

// TestTreeBuilderOrdering verifies both ordering policies.
func TestTreeBuilderOrdering(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "b.txt"), "b")
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "A.txt"), "a")
	makeFixtureDirectory(testingHandle, filepath.Join(rootDirectory, "zeta"))
	makeFixtureDirectory(testingHandle, filepath.Join(rootDirectory, "Alpha"))

	testCases := []struct {
		name     string
		ordering commands.Ordering
		expected string
	}{
		{name: "directories first", ordering: commands.OrderDirectoriesFirst, expected: "Alpha,zeta,A.txt,b.txt"},
		{name: "default", ordering: "", expected: "Alpha,zeta,A.txt,b.txt"},
		{name: "alphabetical", ordering: commands.OrderAlphabetical, expected: "A.txt,Alpha,b.txt,zeta"},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			treeBuilder := commands.TreeBuilder{Filters: config.DefaultFilters(), Ordering: testCase.ordering}
			rootNode := buildTree(subTest, treeBuilder, rootDirectory)
			if got := strings.Join(childNames(rootNode), ","); got != testCase.expected {
				subTest.Fatalf("children = %s, want %s", got, testCase.expected)
			}
		})
	}
}

// TestTreeBuilderItemLimit verifies the per-level cap and that excluded or unrecognized entries are not counted.
func TestTreeBuilderItemLimit(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"} {
		writeFixtureFile(testingHandle, filepath.Join(rootDirectory, name), name)
	}
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "0.bin"), "x")
	makeFixtureDirectory(testingHandle, filepath.Join(rootDirectory, ".git"))
	nestedDirectory := filepath.Join(rootDirectory, "nested")
	for _, name := range []string{"1.md", "2.md", "3.md", "4.md"} {
		writeFixtureFile(testingHandle, filepath.Join(nestedDirectory, name), name)
	}

	testCases := []struct {
		name           string
		limit          int
		expectedRoot   string
		expectedNested int
	}{
		{name: "capped", limit: 3, expectedRoot: "nested,a.txt,b.txt", expectedNested: 3},
		{name: "single", limit: 1, expectedRoot: "nested", expectedNested: 1},
		{name: "unlimited", limit: 0, expectedRoot: "nested,a.txt,b.txt,c.txt,d.txt,e.txt", expectedNested: 4},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			treeBuilder := commands.TreeBuilder{Filters: config.DefaultFilters(), ItemLimit: testCase.limit}
			rootNode := buildTree(subTest, treeBuilder, rootDirectory)
			if got := strings.Join(childNames(rootNode), ","); got != testCase.expectedRoot {
				subTest.Fatalf("root children = %s, want %s", got, testCase.expectedRoot)
			}
			if got := len(rootNode.Children[0].Children); got != testCase.expectedNested {
				subTest.Fatalf("nested children = %d, want %d", got, testCase.expectedNested)
			}
		})
	}
}

// TestTreeBuilderEmptyAndExcludedDirectories verifies empty directories stay and excluded ones vanish.
func TestTreeBuilderEmptyAndExcludedDirectories(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	makeFixtureDirectory(testingHandle, filepath.Join(rootDirectory, "empty"))
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "__pycache__", "m.py"), "x")
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "keep", "build", "out.js"), "x")

	rootNode := buildTree(testingHandle, commands.TreeBuilder{Filters: config.DefaultFilters()}, rootDirectory)
	if got := strings.Join(childNames(rootNode), ","); got != "empty,keep" {
		testingHandle.Fatalf("root children = %s, want empty,keep", got)
	}
	emptyNode := rootNode.Children[0]
	if emptyNode.Children == nil || len(emptyNode.Children) != 0 {
		testingHandle.Fatalf("empty directory must have an empty children list: %+v", emptyNode)
	}
	if len(rootNode.Children[1].Children) != 0 {
		testingHandle.Fatalf("excluded nested directory leaked: %+v", rootNode.Children[1].Children)
	}

	encoded, marshalError := json.Marshal(emptyNode)
	if marshalError != nil {
		testingHandle.Fatalf("marshal: %v", marshalError)
	}
	if !strings.Contains(string(encoded), `"children":[]`) {
		testingHandle.Fatalf("expected empty children array, got %s", encoded)
	}
}

// TestTreeBuilderNonDirectoryRoot verifies a missing or regular-file root becomes a single file node.
func TestTreeBuilderNonDirectoryRoot(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	regularFilePath := filepath.Join(rootDirectory, "notes.bin")
	writeFixtureFile(testingHandle, regularFilePath, "x")

	for _, rootPath := range []string{regularFilePath, filepath.Join(rootDirectory, "missing")} {
		node := buildTree(testingHandle, commands.TreeBuilder{Filters: config.DefaultFilters()}, rootPath)
		if node.Type != types.NodeTypeFile || node.Path != rootPath || node.Name != filepath.Base(rootPath) || node.Children != nil {
			testingHandle.Fatalf("unexpected node for %s: %+v", rootPath, node)
		}
	}
}

// TestTreeBuilderIdempotent verifies repeated builds of an unchanged directory are equal.
func TestTreeBuilderIdempotent(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "x", "y.ts"), "y")
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "Readme.md"), "r")

	treeBuilder := commands.TreeBuilder{Filters: config.DefaultFilters(), ItemLimit: commands.DefaultItemLimit}
	first, firstError := json.Marshal(buildTree(testingHandle, treeBuilder, rootDirectory))
	second, secondError := json.Marshal(buildTree(testingHandle, treeBuilder, rootDirectory))
	if firstError != nil || secondError != nil {
		testingHandle.Fatalf("marshal errors: %v %v", firstError, secondError)
	}
	if string(first) != string(second) {
		testingHandle.Fatalf("builds differ:\n%s\n%s", first, second)
	}
}

// TestTreeBuilderUnreadableDirectory verifies an unlistable subdirectory degrades to no children and logs a warning.
func TestTreeBuilderUnreadableDirectory(testingHandle *testing.T) {
	if os.Geteuid() == 0 {
		testingHandle.Skip("permission bits are not enforced for root")
	}
	rootDirectory := testingHandle.TempDir()
	lockedDirectory := filepath.Join(rootDirectory, "locked")
	writeFixtureFile(testingHandle, filepath.Join(lockedDirectory, "secret.txt"), "s")
	if chmodError := os.Chmod(lockedDirectory, 0o000); chmodError != nil {
		testingHandle.Fatalf("chmod: %v", chmodError)
	}
	testingHandle.Cleanup(func() { _ = os.Chmod(lockedDirectory, 0o755) })

	observedCore, observedLogs := observer.New(zapcore.WarnLevel)
	treeBuilder := commands.TreeBuilder{Filters: config.DefaultFilters(), Logger: zap.New(observedCore)}
	rootNode := buildTree(testingHandle, treeBuilder, rootDirectory)

	if len(rootNode.Children) != 1 || len(rootNode.Children[0].Children) != 0 {
		testingHandle.Fatalf("unexpected tree: %+v", rootNode.Children)
	}
	warnings := observedLogs.FilterField(zap.String("path", lockedDirectory)).All()
	if len(warnings) != 1 {
		testingHandle.Fatalf("expected one warning for %s, got %d", lockedDirectory, len(warnings))
	}
}

// TestTreeBuilderListingFailure verifies listing errors of the root and of a subdirectory degrade to no children.
func TestTreeBuilderListingFailure(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	failingDirectory := filepath.Join(rootDirectory, "failing")
	writeFixtureFile(testingHandle, filepath.Join(failingDirectory, "inner.txt"), "i")
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "kept.md"), "k")
	listingError := errors.New("input/output error")

	testCases := []struct {
		name             string
		failingPath      string
		expectedChildren string
	}{
		{name: "subdirectory", failingPath: failingDirectory, expectedChildren: "failing,kept.md"},
		{name: "root", failingPath: rootDirectory, expectedChildren: ""},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			observedCore, observedLogs := observer.New(zapcore.WarnLevel)
			treeBuilder := commands.TreeBuilder{
				Filters: config.DefaultFilters(),
				Logger:  zap.New(observedCore),
				ReadDirectory: func(directoryPath string) ([]os.DirEntry, error) {
					if directoryPath == testCase.failingPath {
						return nil, listingError
					}
					return os.ReadDir(directoryPath)
				},
			}
			rootNode := buildTree(testingHandle, treeBuilder, rootDirectory)

			if got := strings.Join(childNames(rootNode), ","); got != testCase.expectedChildren {
				testingHandle.Fatalf("root children = %q, want %q", got, testCase.expectedChildren)
			}
			if rootNode.Children == nil {
				testingHandle.Fatalf("directory node must keep a non-nil children list")
			}
			if testCase.failingPath == failingDirectory && len(rootNode.Children[0].Children) != 0 {
				testingHandle.Fatalf("failing directory should have no children: %+v", rootNode.Children[0])
			}
			warnings := observedLogs.FilterField(zap.String("path", testCase.failingPath)).All()
			if len(warnings) != 1 {
				testingHandle.Fatalf("expected one warning for %s, got %d", testCase.failingPath, len(warnings))
			}
		})
	}
}

// TestTreeBuilderDotfilesHaveNoExtension verifies names made of a leading dot and a recognized suffix are not recognized.
func TestTreeBuilderDotfilesHaveNoExtension(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, ".md"), "m")
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, ".env"), "K=V")
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, ".notes.md"), "n")
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "readme.md"), "r")

	treeBuilder := commands.TreeBuilder{Filters: config.NewFilters([]string{".md", ".env"}, nil)}
	rootNode := buildTree(testingHandle, treeBuilder, rootDirectory)

	if got := strings.Join(childNames(rootNode), ","); got != ".notes.md,readme.md" {
		testingHandle.Fatalf("root children = %s, want .notes.md,readme.md", got)
	}
}

// TestTreeBuilderExcludesNamesVerbatim verifies excluded names match base names exactly, whitespace included.
func TestTreeBuilderExcludesNamesVerbatim(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	makeFixtureDirectory(testingHandle, filepath.Join(rootDirectory, " sp "))
	makeFixtureDirectory(testingHandle, filepath.Join(rootDirectory, "sp"))

	treeBuilder := commands.TreeBuilder{Filters: config.NewFilters(nil, []string{" sp "})}
	rootNode := buildTree(testingHandle, treeBuilder, rootDirectory)
	if got := strings.Join(childNames(rootNode), ","); got != "sp" {
		testingHandle.Fatalf("root children = %q, want sp", got)
	}
}

// TestTreeBuilderCancelled verifies a cancelled context aborts the build.
func TestTreeBuilderCancelled(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "a.txt"), "a")
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	_, buildError := commands.TreeBuilder{Filters: config.DefaultFilters()}.Build(cancelledContext, rootDirectory)
	if !errors.Is(buildError, context.Canceled) {
		testingHandle.Fatalf("expected context.Canceled, got %v", buildError)
	}
}

// TestParseOrdering verifies accepted and rejected ordering values.
func TestParseOrdering(testingHandle *testing.T) {
	testCases := []struct {
		input     string
		expected  commands.Ordering
		expectErr bool
	}{
		{input: "", expected: commands.OrderDirectoriesFirst},
		{input: " Alphabetical ", expected: commands.OrderAlphabetical},
		{input: "directories-first", expected: commands.OrderDirectoriesFirst},
		{input: "size", expectErr: true},
	}
	for _, testCase := range testCases {
		ordering, parseError := commands.ParseOrdering(testCase.input)
		if (parseError != nil) != testCase.expectErr {
			testingHandle.Fatalf("ParseOrdering(%q) error = %v", testCase.input, parseError)
		}
		if ordering != testCase.expected {
			testingHandle.Fatalf("ParseOrdering(%q) = %q, want %q", testCase.input, ordering, testCase.expected)
		}
	}
}
