package codec

import (
	"fmt"
	"sort"
	"strings"
)

// Reference is the 100-channel layout with little-endian binary fields,
// a 12-character name and a trailing 8-bit checksum.
//
//	0..3   frequency_hz  uint32 LE
//	4..7   offset_hz     int32 LE
//	8      mode
//	9      tone_mode
//	10..11 tone_value    uint16 LE
//	12..23 name          ASCII, NUL padded
//	24     flags
//	25..26 clarifier_hz  int16 LE
//	27..30 reserved      0xFF
//	31     checksum      sum8, two's complement of bytes 0..30
var Reference = &Layout{
	Name:            "reference",
	ModelIDs:        []uint16{0x0100},
	Channels:        100,
	BaseAddress:     0x1000,
	RecordSize:      32,
	RecordsPerBlock: 4,
	Fill:            0xFF,
	Checksum:        Checksum{Algorithm: Sum8TwosComplement, Position: Trailing},
	Fields: []Field{
		{ID: FieldFrequency, Offset: 0, Width: 4, Encoding: UintLE},
		{ID: FieldOffset, Offset: 4, Width: 4, Encoding: IntLE},
		{ID: FieldMode, Offset: 8, Width: 1, Encoding: UintLE},
		{ID: FieldTone, Offset: 9, Width: 1, Encoding: UintLE},
		{ID: FieldToneValue, Offset: 10, Width: 2, Encoding: UintLE},
		{ID: FieldName, Offset: 12, Width: 12, Encoding: Text, Pad: 0x00},
		{ID: FieldFlags, Offset: 24, Width: 1, Encoding: UintLE},
		{ID: FieldClarifier, Offset: 25, Width: 2, Encoding: IntLE},
	},
}

// PackedBCD is the 64-channel layout storing frequencies and tones as packed
// BCD, with an 8-character space-padded name and a leading CRC-16.
// It has no clarifier field.
//
//	0..1   checksum      CRC-16-CCITT of bytes 2..23, big-endian
//	2..6   frequency_hz  10 BCD digits
//	7..10  offset_hz     int32 BE
//	11     mode
//	12     tone_mode
//	13..14 tone_value    4 BCD digits
//	15..22 name          ASCII, space padded
//	23     flags
var PackedBCD = &Layout{
	Name:            "packed-bcd",
	ModelIDs:        []uint16{0x0200},
	Channels:        64,
	BaseAddress:     0x0000,
	RecordSize:      24,
	RecordsPerBlock: 2,
	Fill:            0x00,
	Checksum:        Checksum{Algorithm: CRC16CCITT, Position: Leading},
	Fields: []Field{
		{ID: FieldFrequency, Offset: 2, Width: 5, Encoding: BCD},
		{ID: FieldOffset, Offset: 7, Width: 4, Encoding: IntBE},
		{ID: FieldMode, Offset: 11, Width: 1, Encoding: UintBE},
		{ID: FieldTone, Offset: 12, Width: 1, Encoding: UintBE},
		{ID: FieldToneValue, Offset: 13, Width: 2, Encoding: BCD},
		{ID: FieldName, Offset: 15, Width: 8, Encoding: Text, Pad: ' '},
		{ID: FieldFlags, Offset: 23, Width: 1, Encoding: UintBE},
	},
}

var registry = map[string]*Layout{
	Reference.Name: Reference,
	PackedBCD.Name: PackedBCD,
}

// Lookup returns the built-in layout with the given name (case-insensitive).
func Lookup(name string) (*Layout, error) {
	if l, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("unknown layout %q (known: %s)", name, strings.Join(LayoutNames(), ", "))
}

// Layouts returns the built-in layouts sorted by name.
func Layouts() []*Layout {
	out := make([]*Layout, 0, len(registry))
	for _, l := range registry {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LayoutNames returns the names of the built-in layouts, sorted.
func LayoutNames() []string {
	var names []string
	for _, l := range Layouts() {
		names = append(names, l.Name)
	}
	return names
}
