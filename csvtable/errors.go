package csvtable

import "fmt"

// UnknownColumnError indicates a header column this package does not know.
// It is only returned in strict mode.
type UnknownColumnError struct {
	Column   string
	Position int
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q at position %d", e.Column, e.Position)
}

// MissingRequiredColumnError indicates that the header lacks a required column.
type MissingRequiredColumnError struct {
	Column string
}

func (e *MissingRequiredColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// InvalidFieldValueError indicates a value that cannot be parsed or that
// makes the record unencodable.
type InvalidFieldValueError struct {
	Column string

	// Row is the line number of the row in the file, the header being line 1
	Row int

	Value string
	Err   error
}

func (e *InvalidFieldValueError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *InvalidFieldValueError) Unwrap() error {
	return e.Err
}

// DuplicateChannelNumberError indicates that two rows use the same channel number.
type DuplicateChannelNumberError struct {
	Channel  int
	FirstRow int
	Row      int
}

func (e *DuplicateChannelNumberError) Error() string {
	return fmt.Sprintf("row %d: channel %d already defined on row %d", e.Row, e.Channel, e.FirstRow)
}

// SyntaxError indicates a row that is not well-formed CSV, such as a stray
// quote or a wrong number of fields.
type SyntaxError struct {
	Row int
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
