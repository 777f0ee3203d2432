// Package csvtable reads and writes channel tables as CSV.
//
// # Table Format
//
// The first row is a header naming the columns. Columns are matched by
// name, so their order in the file is free:
//
//	channel_number,frequency_hz,offset_hz,mode,tone_mode,tone_value,name,flags
//	5,146520000,600000,FM,CTCSS,885,"W1ABC",0x00
//	6,0,0,,NONE,0,"",0x00
//
// channel_number and frequency_hz are required, the other columns default
// to their zero values. A frequency of 0 marks an empty slot. Frequencies
// and offsets are plain decimal Hz, tone values are tenths of Hz for CTCSS
// and the printed code for DCS, flags are a hex bitmask.
//
// The optional clarifier_hz column holds the clarifier offset in Hz. Write
// appends it only when at least one record has a non-zero offset.
//
// Write always quotes the name column, so tables produced by this package
// read back byte-identical after a Parse/Write cycle.
//
// # Validation
//
// Unknown columns are an error unless WithLenient is given. Every row must
// describe an encodable record (see channel.Record.Validate) and channel
// numbers must be unique. ParseReader stops at the first problem; Check
// reports all of them.
package csvtable
