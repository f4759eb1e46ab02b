// Package clipboard places merged output on the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/afero"
)

// ErrUnsupported reports that no clipboard utility is available on this system.
var ErrUnsupported = errors.New("clipboard unavailable")

// Copier copies text to a clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier with github.com/atotto/clipboard.
type Service struct{}

// NewService constructs the system clipboard Copier.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// CopyFile reads filePath from fileSystem and hands its full contents to copier.
func CopyFile(copier Copier, fileSystem afero.Fs, filePath string) error {
	if copier == nil {
		return errors.New("nil clipboard copier")
	}
	contents, readError := afero.ReadFile(fileSystem, filePath)
	if readError != nil {
		return fmt.Errorf("read %s: %w", filePath, readError)
	}
	if copyError := copier.Copy(string(contents)); copyError != nil {
		return fmt.Errorf("copy %s: %w", filePath, copyError)
	}
	return nil
}

var _ Copier = (*Service)(nil)
