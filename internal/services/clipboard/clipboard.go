// Package clipboard copies generated reports to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

const errorClipboardWriteFormat = "copy report to clipboard: %w"

// ErrUnsupported reports a platform without a clipboard utility.
var ErrUnsupported = errors.New("clipboard is not available on this system")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct {
	writeAll    func(string) error
	unsupported bool
}

// NewService constructs a Service bound to the system clipboard.
func NewService() *Service {
	return &Service{writeAll: clipboard.WriteAll, unsupported: clipboard.Unsupported}
}

// NewServiceWithWriter constructs a Service that delivers text to writeAll.
func NewServiceWithWriter(writeAll func(string) error) *Service {
	return &Service{writeAll: writeAll}
}

// Copy writes text to the clipboard.
func (service *Service) Copy(text string) error {
	if service.unsupported || service.writeAll == nil {
		return ErrUnsupported
	}
	if writeError := service.writeAll(text); writeError != nil {
		return fmt.Errorf(errorClipboardWriteFormat, writeError)
	}
	return nil
}

var _ Copier = (*Service)(nil)
