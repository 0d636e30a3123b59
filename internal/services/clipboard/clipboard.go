// Package clipboard places a finished artifact on the system clipboard.
package clipboard

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard Service.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available on this system")
	}
	return clipboard.WriteAll(text)
}

// CopyFile reads the file at path and hands its content to copier.
func CopyFile(copier Copier, path string) error {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return fmt.Errorf("read %s for clipboard: %w", path, readErr)
	}
	if copyErr := copier.Copy(string(data)); copyErr != nil {
		return fmt.Errorf("copy %s to clipboard: %w", path, copyErr)
	}
	return nil
}

var _ Copier = (*Service)(nil)
