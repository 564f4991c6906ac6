package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/folder2chat/internal/config"
	"github.com/tyemirov/folder2chat/internal/output"
	"github.com/tyemirov/folder2chat/internal/tokenizer"
	"github.com/tyemirov/folder2chat/internal/types"
	"github.com/tyemirov/folder2chat/internal/utils"
)

// ExtensionPolicy decides whether report sections honor the recognized extensions.
type ExtensionPolicy string

const (
	// ReportAllFiles includes the content of every requested file.
	ReportAllFiles ExtensionPolicy = "all"
	// ReportRecognizedOnly keeps the section header of unrecognized files but replaces their body.
	ReportRecognizedOnly ExtensionPolicy = "recognized"

	treeSectionHeader        = "Directory Tree:"
	fileSectionHeaderFormat  = "File: %s"
	codeFence                = "```"
	defaultLanguageTag       = "txt"
	unreadableContentFormat  = "Could not read file: %v"
	unrecognizedFileContent  = "(not a recognized text file — skipped)"
	debugSkipPath            = "Skipping path that is not a regular file"
	warningReadFile          = "Could not read file"
	warningTokenCount        = "Failed to count report tokens"
	errorUnknownPolicyFormat = "unknown extension policy %q (expected %s or %s)"
	errorMalformedFileList   = "%w: %v"
)

var (
	// ErrNotADirectory reports a tree root that is not an existing directory.
	ErrNotADirectory = errors.New("not a valid directory")
	// ErrMalformedFileList reports a report file list that is not a JSON array of strings.
	ErrMalformedFileList = errors.New("cannot parse 'files' JSON")
)

// ParseExtensionPolicy converts a configuration value into an ExtensionPolicy. Empty selects ReportAllFiles.
func ParseExtensionPolicy(value string) (ExtensionPolicy, error) {
	switch ExtensionPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", ReportAllFiles:
		return ReportAllFiles, nil
	case ReportRecognizedOnly:
		return ReportRecognizedOnly, nil
	default:
		return "", fmt.Errorf(errorUnknownPolicyFormat, value, ReportAllFiles, ReportRecognizedOnly)
	}
}

// ParseFileList decodes a JSON array of file paths. Failures wrap ErrMalformedFileList.
func ParseFileList(encoded string) ([]string, error) {
	var filePaths []string
	if decodeError := json.Unmarshal([]byte(encoded), &filePaths); decodeError != nil {
		return nil, fmt.Errorf(errorMalformedFileList, ErrMalformedFileList, decodeError)
	}
	return filePaths, nil
}

// ReportRequest lists the files of one report in output order.
type ReportRequest struct {
	FilePaths   []string
	RootPath    string
	IncludeTree bool
}

// ReportResult is the assembled report text and what went into it.
type ReportResult struct {
	Text    string
	Summary types.ReportSummary
}

// ReportGenerator assembles file contents into one text report.
type ReportGenerator struct {
	Filters config.Filters
	Policy  ExtensionPolicy
	Logger  *zap.Logger
	// TreeRenderer overrides the tree section renderer; nil uses output.RenderTreeText.
	TreeRenderer func(rootPath string) string
	TokenCounter tokenizer.Counter
	TokenModel   string
	// ReadFile returns the decoded text of a file; nil uses utils.ReadTextBestEffort.
	ReadFile func(filePath string) (string, error)
}

// Generate builds the report for request. Paths that are not regular files
// are skipped, unreadable files keep their section with a placeholder body,
// and the only error returned is the cancellation of ctx.
func (reportGenerator ReportGenerator) Generate(ctx context.Context, request ReportRequest) (ReportResult, error) {
	logger := utils.LoggerOrNop(reportGenerator.Logger)
	var summary types.ReportSummary
	var reportLines []string

	if request.IncludeTree && utils.IsDirectory(request.RootPath) {
		treeText := reportGenerator.renderTree(request.RootPath, logger)
		if treeText != "" {
			reportLines = append(reportLines, treeSectionHeader, codeFence, treeText, codeFence, "")
		}
	}

	for _, filePath := range request.FilePaths {
		if contextError := ctx.Err(); contextError != nil {
			return ReportResult{}, contextError
		}
		fileSize, isRegularFile := utils.RegularFileSize(filePath)
		if !isRegularFile {
			logger.Debug(debugSkipPath, zap.String("path", filePath))
			summary.FilesSkipped++
			continue
		}

		content := reportGenerator.sectionContent(filePath, logger)
		if content.read {
			summary.BytesRead += fileSize
		}
		reportLines = append(reportLines,
			fmt.Sprintf(fileSectionHeaderFormat, utils.RelativeLabel(filePath, request.RootPath)),
			codeFence+utils.LanguageTag(filePath, defaultLanguageTag),
			content.text,
			codeFence,
			"",
		)
		summary.FilesEmitted++
	}

	reportText := strings.Join(reportLines, "\n")
	summary.TotalSize = utils.FormatFileSize(summary.BytesRead)
	if reportGenerator.TokenCounter != nil {
		countResult, countError := tokenizer.CountText(reportGenerator.TokenCounter, reportText)
		if countError != nil {
			logger.Warn(warningTokenCount, zap.Error(countError))
		} else if countResult.Counted {
			summary.Tokens = countResult.Tokens
			summary.Model = reportGenerator.TokenModel
		}
	}
	return ReportResult{Text: reportText, Summary: summary}, nil
}

func (reportGenerator ReportGenerator) renderTree(rootPath string, logger *zap.Logger) string {
	if reportGenerator.TreeRenderer != nil {
		return reportGenerator.TreeRenderer(rootPath)
	}
	return output.RenderTreeText(rootPath, reportGenerator.Filters, logger)
}

type sectionContent struct {
	text string
	read bool
}

func (reportGenerator ReportGenerator) sectionContent(filePath string, logger *zap.Logger) sectionContent {
	if reportGenerator.Policy == ReportRecognizedOnly && !reportGenerator.Filters.IsRecognized(filePath) {
		return sectionContent{text: unrecognizedFileContent}
	}
	readFile := reportGenerator.ReadFile
	if readFile == nil {
		readFile = utils.ReadTextBestEffort
	}
	text, readError := readFile(filePath)
	if readError != nil {
		logger.Warn(warningReadFile, zap.String("path", filePath), zap.Error(readError))
		return sectionContent{text: fmt.Sprintf(unreadableContentFormat, readError)}
	}
	return sectionContent{text: strings.TrimSpace(text), read: true}
}
