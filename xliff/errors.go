package xliff

import "fmt"

// ParseError reports a translation file that is not well-formed XML or
// does not have the <xliff><file><body> structure.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NamingError reports a file name from which no language can be inferred.
type NamingError struct {
	Name string
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("could not detect language from file name %q", e.Name)
}

// WriteError reports a translation file that could not be persisted. The
// previous content of the file is left in place.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
