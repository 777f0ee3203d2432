package codec

import (
	"fmt"
	"sort"
)

// FieldID names a channel record field inside a layout.
type FieldID int

// Record fields.
const (
	FieldFrequency FieldID = iota
	FieldOffset
	FieldMode
	FieldTone
	FieldToneValue
	FieldName
	FieldFlags

	// FieldClarifier is optional; layouts without it only store records
	// with a zero clarifier offset.
	FieldClarifier

	numFields
)

var fieldNames = [...]string{
	FieldFrequency: "frequency_hz",
	FieldOffset:    "offset_hz",
	FieldMode:      "mode",
	FieldTone:      "tone_mode",
	FieldToneValue: "tone_value",
	FieldName:      "name",
	FieldFlags:     "flags",
	FieldClarifier: "clarifier_hz",
}

func (f FieldID) String() string {
	if f >= 0 && f < numFields {
		return fieldNames[f]
	}
	return fmt.Sprintf("FieldID(%d)", int(f))
}

// Encoding is the byte transform applied to a field value.
type Encoding int

// Field encodings.
const (
	// UintLE is an unsigned little-endian integer
	UintLE Encoding = iota

	// UintBE is an unsigned big-endian integer
	UintBE

	// IntLE is a two's complement little-endian integer
	IntLE

	// IntBE is a two's complement big-endian integer
	IntBE

	// BCD is packed binary-coded decimal, most significant digit first
	BCD

	// Text is ASCII padded on the right with the field's Pad byte
	Text
)

func (e Encoding) String() string {
	switch e {
	case UintLE:
		return "uint-le"
	case UintBE:
		return "uint-be"
	case IntLE:
		return "int-le"
	case IntBE:
		return "int-be"
	case BCD:
		return "bcd"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// Field maps one record field to a byte range inside a record.
type Field struct {
	// ID is the record field stored here
	ID FieldID

	// Offset is the first byte of the field inside the record
	Offset int

	// Width is the number of bytes the field occupies
	Width int

	// Encoding is the byte transform
	Encoding Encoding

	// Pad fills unused trailing bytes of Text fields
	Pad byte
}

// Layout describes how one radio model stores channel records in memory
// and how those records are grouped into protocol blocks.
//
// Every record field appears exactly once in Fields, except FieldClarifier,
// which may be left out. Record bytes covered by
// neither a field nor the checksum are reserved and always hold Fill.
type Layout struct {
	// Name identifies the layout, e.g. on the command line
	Name string

	// ModelIDs are the identities a radio may report for this layout
	ModelIDs []uint16

	// Channels is the channel capacity
	Channels int

	// BaseAddress is the memory address of channel 1
	BaseAddress uint32

	// RecordSize is the size of one record including its checksum
	RecordSize int

	// RecordsPerBlock is the number of records moved per protocol block
	RecordsPerBlock int

	// Fill is the value of reserved bytes and of every non-frequency data
	// byte of an empty slot
	Fill byte

	// Checksum is the per-record integrity check
	Checksum Checksum

	// Fields maps record fields to byte ranges
	Fields []Field
}

// BlockSize returns the number of bytes in one protocol block.
func (l *Layout) BlockSize() int {
	return l.RecordSize * l.RecordsPerBlock
}

// Blocks returns the number of blocks covering the whole channel table.
func (l *Layout) Blocks() int {
	return l.Channels / l.RecordsPerBlock
}

// MemorySize returns the size of the whole channel table in bytes.
func (l *Layout) MemorySize() int {
	return l.Blocks() * l.BlockSize()
}

// BlockAddress returns the address of block i (0-based).
func (l *Layout) BlockAddress(i int) uint32 {
	return l.BaseAddress + uint32(i*l.BlockSize())
}

// BlockIndex returns the block index of addr.
// It reports false if addr is not an aligned block address inside the table.
func (l *Layout) BlockIndex(addr uint32) (int, bool) {
	if addr < l.BaseAddress {
		return 0, false
	}
	off := int(addr - l.BaseAddress)
	if off%l.BlockSize() != 0 {
		return 0, false
	}
	i := off / l.BlockSize()
	if i >= l.Blocks() {
		return 0, false
	}
	return i, true
}

// FirstChannel returns the channel number of the first record of block i.
func (l *Layout) FirstChannel(i int) int {
	return i*l.RecordsPerBlock + 1
}

// SupportsModel reports whether id is one of the layout's model IDs.
func (l *Layout) SupportsModel(id uint16) bool {
	for _, m := range l.ModelIDs {
		if m == id {
			return true
		}
	}
	return false
}

// Field returns the descriptor of field id.
func (l *Layout) Field(id FieldID) (Field, bool) {
	for _, f := range l.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// dataRange returns the record byte range covered by the checksum.
func (l *Layout) dataRange() (start, end int) {
	n := l.Checksum.Algorithm.Size()
	if l.Checksum.Position == Leading {
		return n, l.RecordSize
	}
	return 0, l.RecordSize - n
}

// checksumRange returns the record byte range holding the checksum.
func (l *Layout) checksumRange() (start, end int) {
	n := l.Checksum.Algorithm.Size()
	if l.Checksum.Position == Leading {
		return 0, n
	}
	return l.RecordSize - n, l.RecordSize
}

// reserved returns the offsets of data bytes not covered by any field.
func (l *Layout) reserved() []int {
	covered := make([]bool, l.RecordSize)
	for _, f := range l.Fields {
		for i := f.Offset; i < f.Offset+f.Width; i++ {
			covered[i] = true
		}
	}
	start, end := l.dataRange()
	var out []int
	for i := start; i < end; i++ {
		if !covered[i] {
			out = append(out, i)
		}
	}
	return out
}

// Validate checks the descriptor for consistency.
func (l *Layout) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("layout name is required")
	}
	if l.Channels <= 0 {
		return fmt.Errorf("layout %s: channel capacity must be positive, got %d", l.Name, l.Channels)
	}
	if l.RecordsPerBlock <= 0 {
		return fmt.Errorf("layout %s: records per block must be positive, got %d", l.Name, l.RecordsPerBlock)
	}
	if l.Channels%l.RecordsPerBlock != 0 {
		return fmt.Errorf("layout %s: %d channels do not fill whole blocks of %d records",
			l.Name, l.Channels, l.RecordsPerBlock)
	}
	if !l.Checksum.Algorithm.Valid() {
		return fmt.Errorf("layout %s: unknown checksum algorithm %v", l.Name, l.Checksum.Algorithm)
	}
	if l.Checksum.Position != Leading && l.Checksum.Position != Trailing {
		return fmt.Errorf("layout %s: unknown checksum position %d", l.Name, l.Checksum.Position)
	}
	if l.RecordSize <= l.Checksum.Algorithm.Size() {
		return fmt.Errorf("layout %s: record size %d leaves no room for data", l.Name, l.RecordSize)
	}

	start, end := l.dataRange()
	seen := make(map[FieldID]bool)
	fields := append([]Field(nil), l.Fields...)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Offset < fields[j].Offset })

	prevEnd := start
	for _, f := range fields {
		if f.ID < 0 || f.ID >= numFields {
			return fmt.Errorf("layout %s: unknown field %v", l.Name, f.ID)
		}
		if seen[f.ID] {
			return fmt.Errorf("layout %s: field %v appears twice", l.Name, f.ID)
		}
		seen[f.ID] = true

		if f.Width <= 0 {
			return fmt.Errorf("layout %s: field %v has width %d", l.Name, f.ID, f.Width)
		}
		if f.Offset < start || f.Offset+f.Width > end {
			return fmt.Errorf("layout %s: field %v (%d+%d) is outside the data range %d-%d",
				l.Name, f.ID, f.Offset, f.Width, start, end)
		}
		if f.Offset < prevEnd {
			return fmt.Errorf("layout %s: field %v overlaps the previous field", l.Name, f.ID)
		}
		prevEnd = f.Offset + f.Width

		switch {
		case f.ID == FieldName && f.Encoding != Text:
			return fmt.Errorf("layout %s: field %v must use text encoding", l.Name, f.ID)
		case f.ID != FieldName && f.Encoding == Text:
			return fmt.Errorf("layout %s: field %v cannot use text encoding", l.Name, f.ID)
		case f.Encoding < UintLE || f.Encoding > Text:
			return fmt.Errorf("layout %s: field %v has unknown encoding %v", l.Name, f.ID, f.Encoding)
		case f.Encoding != Text && f.Width > 8:
			return fmt.Errorf("layout %s: numeric field %v is wider than 8 bytes", l.Name, f.ID)
		}
	}

	for id := FieldID(0); id < numFields; id++ {
		if !seen[id] && id != FieldClarifier {
			return fmt.Errorf("layout %s: field %v is missing", l.Name, id)
		}
	}

	return nil
}
