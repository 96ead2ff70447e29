package merger

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoFiles is returned when a merge is requested without input files.
var ErrNoFiles = errors.New("no input files")

// ErrNoTables is returned when none of the input files could be read.
var ErrNoTables = errors.New("none of the input files could be read")

// ErrNoHeader is returned when a sheet ends before its header row.
var ErrNoHeader = errors.New("header row not found")

// ReadError is a failure to turn one source file into a table. It only
// excludes that file from the merge.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError is a failure to write the merged file. It aborts the merge.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
