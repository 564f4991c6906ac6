package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/folder2chat/internal/commands"
	"github.com/tyemirov/folder2chat/internal/config"
	"github.com/tyemirov/folder2chat/internal/services/picker"
	"github.com/tyemirov/folder2chat/internal/utils"
)

const (
	configPath         = "/config"
	browseFolderPath   = "/browse-folder"
	directoryTreePath  = "/directory-tree"
	generateReportPath = "/generate-report"

	folderParameter      = "folder"
	limitParameter       = "limit"
	filesFormField       = "files"
	rootFormField        = "root"
	includeTreeFormField = "include_tree"
	includeTreeEnabled   = "true"

	folderFieldName  = "folder"
	reportFieldName  = "report"
	successFieldName = "success"

	errorNotADirectoryFormat = "'%s' is not a valid directory."
	errorInvalidLimitFormat  = "invalid limit %q: %w"
	errorDecodeConfigFormat  = "decode configuration: %w"
	errorMissingConfigFormat = "configuration must provide %s and %s"
	errorParseFormFormat     = "parse form: %w"
	errorMissingFieldFormat  = "missing form field %q"

	warningPersistSettings = "Failed to persist configuration"
	warningPicker          = "Folder dialog failed"
)

// Capability describes an endpoint exposed by the server.
type Capability struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var capabilities = []Capability{
	{Name: "GET " + configPath, Description: "Current recognized extensions and excluded names"},
	{Name: "POST " + configPath, Description: "Replace and persist the recognized extensions and excluded names"},
	{Name: "GET " + browseFolderPath, Description: "Choose a folder with the native dialog"},
	{Name: "GET " + directoryTreePath, Description: "Filtered directory tree of a folder"},
	{Name: "POST " + generateReportPath, Description: "Concatenated report of the selected files"},
}

type configUpdate struct {
	TextExtensions  *[]string `json:"TEXT_EXTENSIONS"`
	ExcludedFolders *[]string `json:"DEFAULT_EXCLUDED_FOLDERS"`
}

func (server Server) handleRoot(writer http.ResponseWriter, request *http.Request) {
	defaultFolder, _ := os.Getwd()
	server.writeJSON(writer, http.StatusOK, struct {
		DefaultFolder string       `json:"default_folder"`
		Capabilities  []Capability `json:"capabilities"`
	}{DefaultFolder: defaultFolder, Capabilities: capabilities})
}

func (server Server) handleGetConfig(writer http.ResponseWriter, request *http.Request) {
	server.writeJSON(writer, http.StatusOK, config.DocumentFromFilters(server.config.Store.Current()))
}

func (server Server) handleUpdateConfig(writer http.ResponseWriter, request *http.Request) {
	var update configUpdate
	if decodeErr := json.NewDecoder(request.Body).Decode(&update); decodeErr != nil {
		server.writeError(writer, NewRequestError(http.StatusBadRequest, fmt.Errorf(errorDecodeConfigFormat, decodeErr)))
		return
	}
	if update.TextExtensions == nil || update.ExcludedFolders == nil {
		server.writeError(writer, NewRequestError(http.StatusBadRequest, fmt.Errorf(errorMissingConfigFormat, config.TextExtensionsKey, config.ExcludedFoldersKey)))
		return
	}

	replacement := config.NewFilters(*update.TextExtensions, *update.ExcludedFolders)
	if replaceErr := server.config.Store.Replace(replacement); replaceErr != nil {
		server.config.Logger.Warn(warningPersistSettings, zap.String("path", server.config.Store.Path()), zap.Error(replaceErr))
		server.writeJSON(writer, http.StatusOK, map[string]string{errorFieldName: replaceErr.Error()})
		return
	}
	server.writeJSON(writer, http.StatusOK, map[string]bool{successFieldName: true})
}

func (server Server) handleBrowseFolder(writer http.ResponseWriter, request *http.Request) {
	chosenFolder, chooseErr := server.config.Picker.ChooseDirectory(request.Context())
	if errors.Is(chooseErr, context.DeadlineExceeded) {
		server.writeError(writer, chooseErr)
		return
	}
	if chooseErr != nil {
		if !errors.Is(chooseErr, picker.ErrUnavailable) {
			server.config.Logger.Warn(warningPicker, zap.Error(chooseErr))
		}
		server.writeJSON(writer, http.StatusOK, map[string]string{folderFieldName: "", errorFieldName: chooseErr.Error()})
		return
	}
	server.writeJSON(writer, http.StatusOK, map[string]string{folderFieldName: chosenFolder})
}

func (server Server) handleDirectoryTree(writer http.ResponseWriter, request *http.Request) {
	folder := request.URL.Query().Get(folderParameter)
	itemLimit := server.config.ItemLimit
	if rawLimit := request.URL.Query().Get(limitParameter); rawLimit != "" {
		parsedLimit, parseErr := strconv.Atoi(rawLimit)
		if parseErr != nil {
			server.writeError(writer, NewRequestError(http.StatusBadRequest, fmt.Errorf(errorInvalidLimitFormat, rawLimit, parseErr)))
			return
		}
		itemLimit = parsedLimit
	}

	if !utils.IsDirectory(folder) {
		server.writeJSON(writer, http.StatusOK, map[string]string{errorFieldName: fmt.Sprintf(errorNotADirectoryFormat, folder)})
		return
	}

	treeBuilder := commands.TreeBuilder{
		Filters:   server.config.Store.Current(),
		ItemLimit: itemLimit,
		Ordering:  server.config.Ordering,
		Logger:    server.config.Logger,
	}
	tree, buildErr := treeBuilder.Build(request.Context(), folder)
	if buildErr != nil {
		server.writeError(writer, buildErr)
		return
	}
	server.writeJSON(writer, http.StatusOK, tree)
}

func (server Server) handleGenerateReport(writer http.ResponseWriter, request *http.Request) {
	if parseErr := request.ParseMultipartForm(32 << 20); parseErr != nil && !errors.Is(parseErr, http.ErrNotMultipart) {
		server.writeError(writer, NewRequestError(http.StatusBadRequest, fmt.Errorf(errorParseFormFormat, parseErr)))
		return
	}
	for _, fieldName := range []string{filesFormField, rootFormField, includeTreeFormField} {
		if _, present := request.Form[fieldName]; !present {
			server.writeError(writer, NewRequestError(http.StatusBadRequest, fmt.Errorf(errorMissingFieldFormat, fieldName)))
			return
		}
	}

	filePaths, fileListErr := commands.ParseFileList(request.FormValue(filesFormField))
	if fileListErr != nil {
		server.writeJSON(writer, http.StatusOK, map[string]string{errorFieldName: fileListErr.Error()})
		return
	}

	reportGenerator := commands.ReportGenerator{
		Filters: server.config.Store.Current(),
		Policy:  server.config.Policy,
		Logger:  server.config.Logger,
	}
	result, generateErr := reportGenerator.Generate(request.Context(), commands.ReportRequest{
		FilePaths:   filePaths,
		RootPath:    request.FormValue(rootFormField),
		IncludeTree: strings.EqualFold(request.FormValue(includeTreeFormField), includeTreeEnabled),
	})
	if generateErr != nil {
		server.writeError(writer, generateErr)
		return
	}
	server.writeJSON(writer, http.StatusOK, map[string]string{reportFieldName: result.Text})
}
