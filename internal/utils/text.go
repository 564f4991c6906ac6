package utils

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const errorCloseFileFormat = "close %s: %w"

// ReadTextBestEffort reads the whole file at path as UTF-8 text. Invalid byte
// sequences become U+FFFD and a leading byte order mark is dropped, so only
// genuine I/O failures are reported.
//
// #nosec G304
func ReadTextBestEffort(path string) (content string, err error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return "", openError
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && err == nil {
			err = fmt.Errorf(errorCloseFileFormat, path, closeError)
		}
	}()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, readError := io.ReadAll(transform.NewReader(fileHandle, decoder))
	if readError != nil {
		return "", readError
	}
	return string(decoded), nil
}
