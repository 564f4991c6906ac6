package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tyemirov/folder2chat/internal/utils"
)

type configTestCase struct {
	name               string
	globalContent      string
	localContent       string
	explicitPath       string
	explicitContent    string
	expectFormat       string
	expectLimit        *int
	expectIncludeTree  *bool
	expectPolicy       string
	expectModel        string
	expectAddress      string
	expectTimeout      time.Duration
	expectSettingsFile string
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:              "local_overrides_global",
			globalContent:     "tree:\n  format: raw\n  limit: 10\nreport:\n  include_tree: false\n  tokens:\n    model: gpt-4\n",
			localContent:      "tree:\n  format: json\nreport:\n  include_tree: true\n  policy: recognized\n",
			expectFormat:      "json",
			expectLimit:       intPointer(10),
			expectIncludeTree: boolPointer(true),
			expectPolicy:      "recognized",
			expectModel:       "gpt-4",
		},
		{
			name:            "explicit_path_replaces_local",
			localContent:    "tree:\n  format: json\n",
			explicitPath:    "custom.yaml",
			explicitContent: "tree:\n  format: raw\nserver:\n  address: 0.0.0.0:9000\n  request_timeout: 15s\n",
			expectFormat:    "raw",
			expectAddress:   "0.0.0.0:9000",
			expectTimeout:   15 * time.Second,
		},
		{
			name:               "relative_settings_file_resolves_against_working_directory",
			localContent:       "settings_file: settings/filters.yaml\n",
			expectSettingsFile: filepath.Join("settings", "filters.yaml"),
		},
		{
			name: "no_files_yields_zero_configuration",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				globalPath := filepath.Join(configDir, utils.GlobalConfigFileName)
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDir, utils.ConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				target := filepath.Join(workingDir, testCase.explicitPath)
				if err := os.WriteFile(target, []byte(testCase.explicitContent), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				HomeDirectory:    homeDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.Tree.Format != testCase.expectFormat {
				t.Fatalf("expected format %q, got %q", testCase.expectFormat, loadedConfig.Tree.Format)
			}
			if testCase.expectLimit == nil {
				if loadedConfig.Tree.Limit != nil {
					t.Fatalf("expected no limit override")
				}
			} else if loadedConfig.Tree.Limit == nil || *loadedConfig.Tree.Limit != *testCase.expectLimit {
				t.Fatalf("unexpected limit value")
			}
			if testCase.expectIncludeTree == nil {
				if loadedConfig.Report.IncludeTree != nil {
					t.Fatalf("expected no include_tree override")
				}
			} else if loadedConfig.Report.IncludeTree == nil || *loadedConfig.Report.IncludeTree != *testCase.expectIncludeTree {
				t.Fatalf("unexpected include_tree value")
			}
			if loadedConfig.Report.Policy != testCase.expectPolicy {
				t.Fatalf("expected policy %q, got %q", testCase.expectPolicy, loadedConfig.Report.Policy)
			}
			if loadedConfig.Report.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, loadedConfig.Report.Tokens.Model)
			}
			if loadedConfig.Server.Address != testCase.expectAddress {
				t.Fatalf("expected address %q, got %q", testCase.expectAddress, loadedConfig.Server.Address)
			}
			if loadedConfig.Server.RequestTimeout != testCase.expectTimeout {
				t.Fatalf("expected timeout %v, got %v", testCase.expectTimeout, loadedConfig.Server.RequestTimeout)
			}
			expectedSettingsFile := ""
			if testCase.expectSettingsFile != "" {
				expectedSettingsFile = filepath.Join(workingDir, testCase.expectSettingsFile)
			}
			if loadedConfig.SettingsFile != expectedSettingsFile {
				t.Fatalf("expected settings file %q, got %q", expectedSettingsFile, loadedConfig.SettingsFile)
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsDirectory(t *testing.T) {
	workingDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(workingDir, utils.ConfigFileName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir, HomeDirectory: t.TempDir()})
	if err == nil {
		t.Fatalf("expected error for directory configuration path")
	}
}

func TestMergeKeepsBaseWhenOverrideEmpty(t *testing.T) {
	base := ApplicationConfiguration{
		SettingsFile: "/tmp/settings.json",
		Tree:         TreeConfiguration{Format: "raw", Limit: intPointer(5), Ordering: "alphabetical"},
		Report:       ReportConfiguration{IncludeTree: boolPointer(false), Clipboard: boolPointer(true)},
		Server:       ServerConfiguration{Address: "127.0.0.1:1", RequestTimeout: time.Second},
	}
	merged := base.Merge(ApplicationConfiguration{})
	if merged.SettingsFile != base.SettingsFile || merged.Tree.Format != "raw" || *merged.Tree.Limit != 5 || merged.Tree.Ordering != "alphabetical" {
		t.Fatalf("unexpected merged tree configuration: %+v", merged)
	}
	if *merged.Report.IncludeTree || !*merged.Report.Clipboard {
		t.Fatalf("unexpected merged report configuration: %+v", merged.Report)
	}
	if merged.Server != base.Server {
		t.Fatalf("unexpected merged server configuration: %+v", merged.Server)
	}
	if merged.Tree.Limit == base.Tree.Limit || merged.Report.IncludeTree == base.Report.IncludeTree || merged.Report.Clipboard == base.Report.Clipboard {
		t.Fatalf("expected base pointers to be cloned")
	}
	*merged.Tree.Limit = 9
	if *base.Tree.Limit != 5 {
		t.Fatalf("mutating the merged configuration changed the base limit to %d", *base.Tree.Limit)
	}
}
