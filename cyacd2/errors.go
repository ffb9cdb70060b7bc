package cyacd2

import "fmt"

// InvalidFileTypeError indicates a path without the required .cyacd2
// extension.
type InvalidFileTypeError struct {
	Path string
}

func (e *InvalidFileTypeError) Error() string {
	return fmt.Sprintf("invalid file type %q: expected an application image with the %s extension", e.Path, FileExtension)
}

// InvalidApplicationFileError indicates a structurally malformed application
// image: a bad header, a bad application info line, or a bad data row.
type InvalidApplicationFileError struct {
	Reason string
}

func (e *InvalidApplicationFileError) Error() string {
	return "invalid application file: " + e.Reason
}
