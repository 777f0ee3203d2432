package codec

import "fmt"

// LengthMismatchError indicates that a record span is not exactly the record size.
type LengthMismatchError struct {
	Got  int
	Want int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("record length mismatch: got %d bytes, expected %d", e.Got, e.Want)
}

// ChecksumMismatchError indicates that a record's stored checksum disagrees
// with the checksum computed over its data bytes.
type ChecksumMismatchError struct {
	Channel  int
	Expected uint16
	Actual   uint16
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for channel %d: stored 0x%02X, computed 0x%02X",
		e.Channel, e.Expected, e.Actual)
}

// MalformedRecordError indicates that a checksum-valid record holds bytes
// that do not map to a valid channel record.
type MalformedRecordError struct {
	Channel int

	// Field names the offending field, "reserved" or "empty slot"
	Field string

	// Offset is the first record byte of the offending field
	Offset int

	// Reason describes the problem
	Reason string

	// Err is the underlying cause, if any
	Err error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record for channel %d: %s at byte %d: %s",
		e.Channel, e.Field, e.Offset, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// EncodeError indicates that a record cannot be encoded by a layout.
type EncodeError struct {
	Channel int
	Field   string
	Err     error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode channel %d: %s: %v", e.Channel, e.Field, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
