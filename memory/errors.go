package memory

import "fmt"

// ChannelRangeError indicates a channel number outside 1..capacity.
type ChannelRangeError struct {
	Channel  int
	Capacity int
}

func (e *ChannelRangeError) Error() string {
	return fmt.Sprintf("channel %d is out of range: valid range is 1-%d", e.Channel, e.Capacity)
}

// DuplicateChannelError indicates that two records claim the same slot.
type DuplicateChannelError struct {
	Channel int
}

func (e *DuplicateChannelError) Error() string {
	return fmt.Sprintf("channel %d appears more than once", e.Channel)
}

// PartialReadError indicates that some records could not be decoded.
// Image holds every channel that was decoded successfully.
type PartialReadError struct {
	Image *Image

	// Succeeded is the number of records decoded without error
	Succeeded int

	// FirstFailureAddress is the memory address of the first bad record
	FirstFailureAddress uint32

	// Err is the decode error of the first bad record
	Err error

	// Failed is the number of records that could not be decoded
	Failed int
}

func (e *PartialReadError) Error() string {
	return fmt.Sprintf("partial read: %d records decoded, %d failed, first at 0x%04X: %v",
		e.Succeeded, e.Failed, e.FirstFailureAddress, e.Err)
}

func (e *PartialReadError) Unwrap() error {
	return e.Err
}

// PartialWriteError indicates that an upload stopped after some blocks were
// already written. The radio memory then mixes old and new contents.
type PartialWriteError struct {
	// Written is the number of blocks written before the failure
	Written int

	// Address is the block that failed
	Address uint32

	Err error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("upload interrupted after %d blocks at 0x%04X: %v", e.Written, e.Address, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}
