package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelection is returned when the caller passes no paths at all.
	ErrInvalidSelection = errors.New("no paths selected")
	// ErrEmptySelection is returned when the selection contains no regular files.
	ErrEmptySelection = errors.New("selection contains no shareable files")
)

// FileSystemError wraps a filesystem failure during manifest construction.
// The whole build fails; no partial manifest is ever produced.
type FileSystemError struct {
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }
