package channel

import (
	"fmt"
	"strings"
)

// Record is one memory channel.
// Records are comparable; two records are equal when every field is equal.
type Record struct {
	// Number is the channel slot, starting at 1
	Number int

	// Frequency is the receive frequency in Hz. Zero marks an empty slot.
	Frequency uint32

	// Offset is the transmit offset in Hz for repeater operation.
	// Positive values shift up, negative values shift down.
	Offset int32

	// Clarifier is the clarifier (RIT/XIT) offset in Hz, at most
	// MaxClarifier either way. FlagRxClarifier and FlagTxClarifier
	// select where it applies.
	Clarifier int16

	// Mode is the operating mode
	Mode Mode

	// Tone selects the squelch tone system
	Tone ToneMode

	// ToneValue is the CTCSS tone in tenths of Hz (885 = 88.5 Hz)
	// or the DCS code as printed on the radio (23 = D023)
	ToneValue uint16

	// Name is the memory tag shown on the radio display
	Name string

	// Flags holds the boolean channel attributes
	Flags Flags
}

// MaxClarifier is the largest clarifier offset magnitude in Hz.
const MaxClarifier = 9990

// Empty returns the canonical empty record for slot n.
func Empty(n int) Record {
	return Record{Number: n}
}

// IsEmpty reports whether the record is an unprogrammed slot.
func (r Record) IsEmpty() bool {
	return r.Frequency == 0
}

// Validate checks that the record can be encoded.
// Band plans are not enforced here; only enum membership, tone tables,
// flag bits and name characters are.
//
// An empty record only needs a valid channel number, the other fields are
// ignored when it is encoded.
func (r Record) Validate() error {
	if r.Number < 1 {
		return &FieldError{Field: "channel_number", Value: fmt.Sprint(r.Number), Reason: "must be 1 or greater"}
	}
	if r.IsEmpty() {
		return nil
	}

	if !r.Mode.Valid() {
		return &FieldError{Field: "mode", Value: fmt.Sprintf("0x%02X", byte(r.Mode)), Reason: "unknown mode"}
	}
	if !r.Tone.Valid() {
		return &FieldError{Field: "tone_mode", Value: fmt.Sprintf("0x%02X", byte(r.Tone)), Reason: "unknown tone mode"}
	}
	if err := validateTone(r.Tone, r.ToneValue); err != nil {
		return err
	}
	if r.Clarifier > MaxClarifier || r.Clarifier < -MaxClarifier {
		return &FieldError{Field: "clarifier_hz", Value: fmt.Sprint(r.Clarifier), Reason: fmt.Sprintf("must be between -%d and %d", MaxClarifier, MaxClarifier)}
	}
	if r.Flags&^knownFlags != 0 {
		return &FieldError{Field: "flags", Value: r.Flags.String(), Reason: "unknown flag bits"}
	}
	if err := ValidateName(r.Name); err != nil {
		return err
	}

	return nil
}

func validateTone(mode ToneMode, value uint16) error {
	switch mode {
	case ToneNone:
		if value != 0 {
			return &FieldError{Field: "tone_value", Value: fmt.Sprint(value), Reason: "must be 0 when tone_mode is NONE"}
		}
	case ToneCTCSS, ToneCTCSSEncode:
		if !IsCTCSSTone(value) {
			return &FieldError{Field: "tone_value", Value: fmt.Sprint(value), Reason: "not a standard CTCSS tone"}
		}
	case ToneDCS:
		if !IsDCSCode(value) {
			return &FieldError{Field: "tone_value", Value: fmt.Sprint(value), Reason: "not a standard DCS code"}
		}
	}
	return nil
}

// ValidateName checks that a memory tag only holds encodable characters:
// 7-bit ASCII without NUL or carriage return.
// CR is rejected because RFC 4180 readers fold CRLF inside quoted fields.
func ValidateName(name string) error {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 0x80:
			return &FieldError{Field: "name", Value: name, Reason: fmt.Sprintf("non-ASCII byte 0x%02X at position %d", c, i)}
		case c == 0x00:
			return &FieldError{Field: "name", Value: name, Reason: fmt.Sprintf("NUL byte at position %d", i)}
		case c == '\r':
			return &FieldError{Field: "name", Value: name, Reason: fmt.Sprintf("carriage return at position %d", i)}
		}
	}
	return nil
}

func (r Record) String() string {
	if r.IsEmpty() {
		return fmt.Sprintf("#%d (empty)", r.Number)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#%d %d Hz %s", r.Number, r.Frequency, r.Mode)
	if r.Offset != 0 {
		fmt.Fprintf(&b, " offset %+d Hz", r.Offset)
	}
	if r.Clarifier != 0 {
		fmt.Fprintf(&b, " clarifier %+d Hz", r.Clarifier)
	}
	if r.Tone != ToneNone {
		fmt.Fprintf(&b, " %s %d", r.Tone, r.ToneValue)
	}
	if r.Name != "" {
		fmt.Fprintf(&b, " %q", r.Name)
	}
	if r.Flags != 0 {
		fmt.Fprintf(&b, " [%s]", r.Flags.Names())
	}
	return b.String()
}
