package mcp

type (
	// DirectoryTreeInput selects the folder and shape of a directory tree.
	DirectoryTreeInput struct {
		Path     string `json:"path" jsonschema:"Absolute path of the folder to list"`
		Limit    int    `json:"limit,omitempty" jsonschema:"Maximum children per directory level (default: 100, negative: unlimited)"`
		Ordering string `json:"ordering,omitempty" jsonschema:"directories-first (default) or alphabetical"`
		Format   string `json:"format,omitempty" jsonschema:"json (default) or raw"`
	}

	// DirectoryTreeOutput carries the rendered tree.
	DirectoryTreeOutput struct {
		Path   string `json:"path"`
		Format string `json:"format"`
		Tree   string `json:"tree"`
	}

	// DirectoryOutlineInput selects the folder to outline.
	DirectoryOutlineInput struct {
		Path string `json:"path" jsonschema:"Absolute path of the folder to outline"`
	}

	// DirectoryOutlineOutput carries the outline text.
	DirectoryOutlineOutput struct {
		Path    string `json:"path"`
		Outline string `json:"outline"`
	}

	// GenerateReportInput lists the files of a report.
	GenerateReportInput struct {
		Files       []string `json:"files" jsonschema:"Absolute file paths in report order"`
		Root        string   `json:"root,omitempty" jsonschema:"Folder used for relative labels and the tree section"`
		IncludeTree bool     `json:"include_tree,omitempty" jsonschema:"Prefix the report with the folder's tree"`
		Policy      string   `json:"policy,omitempty" jsonschema:"all (default) or recognized"`
	}

	// GenerateReportOutput carries the report and its summary.
	GenerateReportOutput struct {
		Report       string `json:"report"`
		FilesEmitted int    `json:"files_emitted"`
		FilesSkipped int    `json:"files_skipped"`
		TotalSize    string `json:"total_size"`
	}
)
