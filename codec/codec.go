package codec

import (
	"fmt"

	"github.com/moffa90/go-radiomem/channel"
)

// Codec encodes and decodes channel records for one layout.
// A Codec holds no mutable state and is safe for concurrent use.
type Codec struct {
	layout   *Layout
	reserved []int
}

// New creates a Codec for the layout after validating it.
func New(l *Layout) (*Codec, error) {
	if l == nil {
		return nil, fmt.Errorf("layout cannot be nil")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &Codec{layout: l, reserved: l.reserved()}, nil
}

// MustNew is like New but panics on an invalid layout.
// It is intended for the layouts built into this package.
func MustNew(l *Layout) *Codec {
	c, err := New(l)
	if err != nil {
		panic(err)
	}
	return c
}

// Layout returns the layout the codec was built for.
func (c *Codec) Layout() *Layout {
	return c.layout
}

// Encode converts a record into its fixed-width byte form.
//
// Empty records produce the layout's empty pattern: a zero frequency field,
// every other data byte set to Fill and a valid checksum. Names longer than
// the name field are truncated. A clarifier offset fails to encode on
// layouts without a clarifier field.
func (c *Codec) Encode(r channel.Record) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, &EncodeError{Channel: r.Number, Field: "record", Err: err}
	}

	l := c.layout
	b := make([]byte, l.RecordSize)
	start, end := l.dataRange()

	if r.IsEmpty() {
		for i := start; i < end; i++ {
			b[i] = l.Fill
		}
		f, _ := l.Field(FieldFrequency)
		for i := f.Offset; i < f.Offset+f.Width; i++ {
			b[i] = 0
		}
		c.seal(b)
		return b, nil
	}

	if _, ok := l.Field(FieldClarifier); !ok && r.Clarifier != 0 {
		return nil, &EncodeError{
			Channel: r.Number,
			Field:   FieldClarifier.String(),
			Err:     fmt.Errorf("layout %s does not store a clarifier offset", l.Name),
		}
	}

	for _, i := range c.reserved {
		b[i] = l.Fill
	}
	for _, f := range l.Fields {
		dst := b[f.Offset : f.Offset+f.Width]
		if f.Encoding == Text {
			putText(dst, r.Name, f.Pad)
			continue
		}
		if err := putNumber(dst, f.Encoding, fieldValue(r, f.ID)); err != nil {
			return nil, &EncodeError{Channel: r.Number, Field: f.ID.String(), Err: err}
		}
	}

	c.seal(b)
	return b, nil
}

// seal computes and stores the record checksum.
func (c *Codec) seal(b []byte) {
	start, end := c.layout.dataRange()
	cs, ce := c.layout.checksumRange()
	alg := c.layout.Checksum.Algorithm
	alg.put(b[cs:ce], alg.Sum(b[start:end]))
}

// Decode converts a record span back into a channel record for slot number.
//
// A span whose frequency field is all zeros decodes to channel.Empty(number);
// the rest of the span must then match the layout's empty pattern.
// Every span Decode accepts re-encodes to identical bytes.
func (c *Codec) Decode(number int, b []byte) (channel.Record, error) {
	l := c.layout
	if len(b) != l.RecordSize {
		return channel.Record{}, &LengthMismatchError{Got: len(b), Want: l.RecordSize}
	}

	start, end := l.dataRange()
	cs, ce := l.checksumRange()
	alg := l.Checksum.Algorithm
	stored := alg.get(b[cs:ce])
	computed := alg.Sum(b[start:end])
	if stored != computed {
		return channel.Record{}, &ChecksumMismatchError{Channel: number, Expected: stored, Actual: computed}
	}

	freq, _ := l.Field(FieldFrequency)
	if allZero(b[freq.Offset : freq.Offset+freq.Width]) {
		for i := start; i < end; i++ {
			if i >= freq.Offset && i < freq.Offset+freq.Width {
				continue
			}
			if b[i] != l.Fill {
				return channel.Record{}, &MalformedRecordError{
					Channel: number,
					Field:   "empty slot",
					Offset:  i,
					Reason:  fmt.Sprintf("byte 0x%02X differs from fill 0x%02X", b[i], l.Fill),
				}
			}
		}
		return channel.Empty(number), nil
	}

	for _, i := range c.reserved {
		if b[i] != l.Fill {
			return channel.Record{}, &MalformedRecordError{
				Channel: number,
				Field:   "reserved",
				Offset:  i,
				Reason:  fmt.Sprintf("byte 0x%02X differs from fill 0x%02X", b[i], l.Fill),
			}
		}
	}

	r := channel.Record{Number: number}
	for _, f := range l.Fields {
		src := b[f.Offset : f.Offset+f.Width]
		if f.Encoding == Text {
			r.Name = getText(src, f.Pad)
			continue
		}
		v, err := getNumber(src, f.Encoding)
		if err == nil {
			err = setFieldValue(&r, f.ID, v)
		}
		if err != nil {
			return channel.Record{}, &MalformedRecordError{
				Channel: number,
				Field:   f.ID.String(),
				Offset:  f.Offset,
				Reason:  err.Error(),
				Err:     err,
			}
		}
	}

	if err := r.Validate(); err != nil {
		mre := &MalformedRecordError{Channel: number, Field: "record", Reason: err.Error(), Err: err}
		if fe, ok := err.(*channel.FieldError); ok {
			mre.Field = fe.Field
			if f, ok := c.fieldByName(fe.Field); ok {
				mre.Offset = f.Offset
			}
		}
		return channel.Record{}, mre
	}

	return r, nil
}

// Normalize returns the record Decode(Encode(r)) yields: empty records
// collapse to channel.Empty, names are truncated to the name field and
// lose trailing pad bytes.
func (c *Codec) Normalize(r channel.Record) channel.Record {
	if r.IsEmpty() {
		return channel.Empty(r.Number)
	}
	f, _ := c.layout.Field(FieldName)
	name := r.Name
	if len(name) > f.Width {
		name = name[:f.Width]
	}
	buf := []byte(name)
	r.Name = getText(buf, f.Pad)
	return r
}

func (c *Codec) fieldByName(name string) (Field, bool) {
	for _, f := range c.layout.Fields {
		if f.ID.String() == name {
			return f, true
		}
	}
	return Field{}, false
}

func fieldValue(r channel.Record, id FieldID) int64 {
	switch id {
	case FieldFrequency:
		return int64(r.Frequency)
	case FieldOffset:
		return int64(r.Offset)
	case FieldMode:
		return int64(r.Mode)
	case FieldTone:
		return int64(r.Tone)
	case FieldToneValue:
		return int64(r.ToneValue)
	case FieldFlags:
		return int64(r.Flags)
	case FieldClarifier:
		return int64(r.Clarifier)
	}
	return 0
}

func setFieldValue(r *channel.Record, id FieldID, v int64) error {
	inRange := func(lo, hi int64) error {
		if v < lo || v > hi {
			return fmt.Errorf("value %d is outside %d..%d", v, lo, hi)
		}
		return nil
	}

	switch id {
	case FieldFrequency:
		if err := inRange(0, 1<<32-1); err != nil {
			return err
		}
		r.Frequency = uint32(v)
	case FieldOffset:
		if err := inRange(-1<<31, 1<<31-1); err != nil {
			return err
		}
		r.Offset = int32(v)
	case FieldMode:
		if err := inRange(0, 0xFF); err != nil {
			return err
		}
		r.Mode = channel.Mode(v)
		if !r.Mode.Valid() {
			return fmt.Errorf("unknown mode code 0x%02X", v)
		}
	case FieldTone:
		if err := inRange(0, 0xFF); err != nil {
			return err
		}
		r.Tone = channel.ToneMode(v)
		if !r.Tone.Valid() {
			return fmt.Errorf("unknown tone mode code 0x%02X", v)
		}
	case FieldToneValue:
		if err := inRange(0, 0xFFFF); err != nil {
			return err
		}
		r.ToneValue = uint16(v)
	case FieldFlags:
		if err := inRange(0, 0xFF); err != nil {
			return err
		}
		r.Flags = channel.Flags(v)
	case FieldClarifier:
		if err := inRange(-1<<15, 1<<15-1); err != nil {
			return err
		}
		r.Clarifier = int16(v)
	}
	return nil
}

func allZero(b []byte) bool {
	for _, x := range b {
		if x != 0 {
			return false
		}
	}
	return true
}
