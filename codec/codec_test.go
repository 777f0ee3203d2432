package codec

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/moffa90/go-radiomem/channel"
)

var exampleRecord = channel.Record{
	Number:    5,
	Frequency: 146520000,
	Offset:    600000,
	Mode:      channel.ModeFM,
	Tone:      channel.ToneCTCSS,
	ToneValue: 885,
	Name:      "W1ABC",
}

func TestEncodeGolden(t *testing.T) {
	packed := exampleRecord
	packed.Offset = -600000
	packed.Flags = channel.FlagSkip
	clarified := exampleRecord
	clarified.Clarifier = -1000

	tests := []struct {
		name   string
		layout *Layout
		record channel.Record
		want   []byte
	}{
		{
			name:   "reference",
			layout: Reference,
			record: exampleRecord,
			want: []byte{
				0xC0, 0xB7, 0xBB, 0x08, // 146520000
				0xC0, 0x27, 0x09, 0x00, // +600000
				0x04, 0x01, // FM, CTCSS
				0x75, 0x03, // 885
				'W', '1', 'A', 'B', 'C', 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00,                   // flags
				0x00, 0x00,             // clarifier
				0xFF, 0xFF, 0xFF, 0xFF, // reserved
				0x0F, // checksum
			},
		},
		{
			name:   "reference with clarifier",
			layout: Reference,
			record: clarified,
			want: []byte{
				0xC0, 0xB7, 0xBB, 0x08,
				0xC0, 0x27, 0x09, 0x00,
				0x04, 0x01,
				0x75, 0x03,
				'W', '1', 'A', 'B', 'C', 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x00,
				0x18, 0xFC, // -1000
				0xFF, 0xFF, 0xFF, 0xFF,
				0xFB,
			},
		},
		{
			name:   "reference empty",
			layout: Reference,
			record: channel.Empty(7),
			want: append(append([]byte{0x00, 0x00, 0x00, 0x00},
				bytes.Repeat([]byte{0xFF}, 27)...), 0x1B),
		},
		{
			name:   "packed bcd",
			layout: PackedBCD,
			record: packed,
			want: []byte{
				0x28, 0xAB, // CRC-16
				0x01, 0x46, 0x52, 0x00, 0x00, // 0146520000
				0xFF, 0xF6, 0xD8, 0x40, // -600000
				0x04, 0x01, // FM, CTCSS
				0x08, 0x85, // 0885
				'W', '1', 'A', 'B', 'C', ' ', ' ', ' ',
				0x01, // skip
			},
		},
		{
			name:   "packed bcd empty",
			layout: PackedBCD,
			record: channel.Empty(1),
			want:   append([]byte{0x9F, 0xB4}, make([]byte, 22)...),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := MustNew(tt.layout)
			got, err := c.Encode(tt.record)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("Encode() =\n% X\nwant\n% X", got, tt.want)
			}

			back, err := c.Decode(tt.record.Number, got)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if back != c.Normalize(tt.record) {
				t.Errorf("Decode() = %v, want %v", back, tt.record)
			}
		})
	}
}

func TestEncodeIgnoresFieldsOfEmptyRecord(t *testing.T) {
	c := MustNew(Reference)
	junk := channel.Record{Number: 3, Mode: channel.Mode(0x77), Name: "junk", Flags: 0xF0}

	got, err := c.Encode(junk)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want, _ := c.Encode(channel.Empty(3))
	if !bytes.Equal(got, want) {
		t.Errorf("Encode(empty with junk) = % X, want % X", got, want)
	}
}

func TestEncodeTruncatesName(t *testing.T) {
	c := MustNew(PackedBCD)
	r := exampleRecord
	r.Name = "REPEATER NORTH"

	b, err := c.Encode(r)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := c.Decode(r.Number, b)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Name != "REPEATER" {
		t.Errorf("Name = %q, want %q", got.Name, "REPEATER")
	}
	if got != c.Normalize(r) {
		t.Errorf("Decode() = %v, Normalize() = %v", got, c.Normalize(r))
	}
}

func TestEncodeErrors(t *testing.T) {
	c := MustNew(Reference)

	tests := []struct {
		name   string
		record channel.Record
		field  string
	}{
		{"zero channel number", channel.Record{Number: 0, Frequency: 1}, "channel_number"},
		{"unknown mode", channel.Record{Number: 1, Frequency: 1, Mode: 0x20}, "mode"},
		{"tone off-table", channel.Record{Number: 1, Frequency: 1, Mode: channel.ModeFM, Tone: channel.ToneCTCSS, ToneValue: 886}, "tone_value"},
		{"name with NUL", channel.Record{Number: 1, Frequency: 1, Mode: channel.ModeFM, Name: "A\x00B"}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Encode(tt.record)
			var fe *channel.FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("Encode() error = %v, want *channel.FieldError", err)
			}
			if fe.Field != tt.field {
				t.Errorf("Field = %q, want %q", fe.Field, tt.field)
			}
		})
	}
}

func TestEncodeClarifierWithoutField(t *testing.T) {
	r := exampleRecord
	r.Clarifier = 250

	_, err := MustNew(PackedBCD).Encode(r)
	var ee *EncodeError
	if !errors.As(err, &ee) {
		t.Fatalf("Encode() error = %v, want *EncodeError", err)
	}
	if ee.Field != "clarifier_hz" {
		t.Errorf("Field = %q, want %q", ee.Field, "clarifier_hz")
	}

	// An empty slot carries no clarifier.
	r.Frequency = 0
	if _, err := MustNew(PackedBCD).Encode(r); err != nil {
		t.Errorf("Encode(empty) error = %v", err)
	}
}

func TestDecodeLengthMismatch(t *testing.T) {
	c := MustNew(Reference)
	_, err := c.Decode(1, make([]byte, 31))

	var lme *LengthMismatchError
	if !errors.As(err, &lme) {
		t.Fatalf("Decode() error = %v, want *LengthMismatchError", err)
	}
	if lme.Got != 31 || lme.Want != 32 {
		t.Errorf("LengthMismatchError = %+v", lme)
	}
}

// Flipping any single byte of an encoded record, checksum included,
// must be detected before any field is interpreted.
func TestDecodeDetectsCorruption(t *testing.T) {
	for _, l := range Layouts() {
		t.Run(l.Name, func(t *testing.T) {
			c := MustNew(l)
			good, err := c.Encode(exampleRecord)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			for i := range good {
				b := append([]byte(nil), good...)
				b[i] ^= 0x5A

				_, err := c.Decode(exampleRecord.Number, b)
				var cme *ChecksumMismatchError
				if !errors.As(err, &cme) {
					t.Fatalf("byte %d: Decode() error = %v, want *ChecksumMismatchError", i, err)
				}
				if cme.Channel != exampleRecord.Number {
					t.Errorf("byte %d: Channel = %d, want %d", i, cme.Channel, exampleRecord.Number)
				}
			}
		})
	}
}

// reseal recomputes the checksum of a hand-edited record.
func reseal(l *Layout, b []byte) {
	start, end := l.dataRange()
	cs, ce := l.checksumRange()
	l.Checksum.Algorithm.put(b[cs:ce], l.Checksum.Algorithm.Sum(b[start:end]))
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name   string
		layout *Layout
		edit   func(b []byte)
		field  string
	}{
		{
			name:   "unknown mode byte",
			layout: Reference,
			edit:   func(b []byte) { b[8] = 0x42 },
			field:  "mode",
		},
		{
			name:   "unknown tone mode byte",
			layout: Reference,
			edit:   func(b []byte) { b[9] = 0x09 },
			field:  "tone_mode",
		},
		{
			name:   "tone value not in table",
			layout: Reference,
			edit:   func(b []byte) { b[10] = 0x76 },
			field:  "tone_value",
		},
		{
			name:   "unknown flag bits",
			layout: Reference,
			edit:   func(b []byte) { b[24] = 0x80 },
			field:  "flags",
		},
		{
			name:   "clarifier out of range",
			layout: Reference,
			edit:   func(b []byte) { b[25], b[26] = 0x10, 0x27 }, // 10000
			field:  "clarifier_hz",
		},
		{
			name:   "reserved byte not fill",
			layout: Reference,
			edit:   func(b []byte) { b[27] = 0x00 },
			field:  "reserved",
		},
		{
			name:   "non-ascii name",
			layout: Reference,
			edit:   func(b []byte) { b[13] = 0xB0 },
			field:  "name",
		},
		{
			name:   "invalid bcd digit",
			layout: PackedBCD,
			edit:   func(b []byte) { b[3] = 0x4A },
			field:  "frequency_hz",
		},
		{
			name:   "bcd frequency above uint32",
			layout: PackedBCD,
			edit:   func(b []byte) { b[2] = 0x99 },
			field:  "frequency_hz",
		},
		{
			name:   "empty slot with stray byte",
			layout: Reference,
			edit: func(b []byte) {
				copy(b[0:4], []byte{0, 0, 0, 0})
				b[8] = 0x04
			},
			field: "empty slot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := MustNew(tt.layout)
			b, err := c.Encode(exampleRecord)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			tt.edit(b)
			reseal(tt.layout, b)

			_, err = c.Decode(exampleRecord.Number, b)
			var mre *MalformedRecordError
			if !errors.As(err, &mre) {
				t.Fatalf("Decode() error = %v, want *MalformedRecordError", err)
			}
			if mre.Field != tt.field {
				t.Errorf("Field = %q, want %q (%v)", mre.Field, tt.field, mre)
			}
		})
	}
}

func randomRecord(rng *rand.Rand, l *Layout, number int) channel.Record {
	if rng.Intn(8) == 0 {
		return channel.Empty(number)
	}

	modes := channel.Modes()
	r := channel.Record{
		Number:    number,
		Frequency: uint32(rng.Int63n(1<<32-1)) + 1,
		Offset:    int32(rng.Uint32()),
		Mode:      modes[rng.Intn(len(modes))],
		Tone:      channel.ToneMode(rng.Intn(4)),
		Flags:     channel.Flags(rng.Intn(8)),
	}
	switch r.Tone {
	case channel.ToneCTCSS, channel.ToneCTCSSEncode:
		tones := channel.CTCSSTones()
		r.ToneValue = tones[rng.Intn(len(tones))]
	case channel.ToneDCS:
		codes := channel.DCSCodes()
		r.ToneValue = codes[rng.Intn(len(codes))]
	}

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 -/,\"\n"
	name := make([]byte, rng.Intn(15))
	for i := range name {
		name[i] = alphabet[rng.Intn(len(alphabet))]
	}
	r.Name = string(name)

	if _, ok := l.Field(FieldClarifier); ok {
		r.Clarifier = int16(rng.Intn(2*channel.MaxClarifier+1) - channel.MaxClarifier)
	}
	return r
}

func TestRoundTripRecords(t *testing.T) {
	for _, l := range Layouts() {
		t.Run(l.Name, func(t *testing.T) {
			c := MustNew(l)
			rng := rand.New(rand.NewSource(1))

			for i := 0; i < 2000; i++ {
				r := randomRecord(rng, l, 1+rng.Intn(l.Channels))
				b, err := c.Encode(r)
				if err != nil {
					t.Fatalf("Encode(%v) error = %v", r, err)
				}
				if len(b) != l.RecordSize {
					t.Fatalf("Encode(%v) produced %d bytes, want %d", r, len(b), l.RecordSize)
				}

				got, err := c.Decode(r.Number, b)
				if err != nil {
					t.Fatalf("Decode(Encode(%v)) error = %v", r, err)
				}
				if want := c.Normalize(r); got != want {
					t.Fatalf("Decode(Encode(r)) = %v, want %v", got, want)
				}
			}
		})
	}
}

// Every span Decode accepts must re-encode to the identical bytes.
func TestRoundTripBytes(t *testing.T) {
	for _, l := range Layouts() {
		t.Run(l.Name, func(t *testing.T) {
			c := MustNew(l)
			rng := rand.New(rand.NewSource(2))
			accepted := 0

			for i := 0; i < 5000; i++ {
				r := randomRecord(rng, l, 1+rng.Intn(l.Channels))
				b, err := c.Encode(r)
				if err != nil {
					t.Fatalf("Encode(%v) error = %v", r, err)
				}

				// Perturb one data byte and make the checksum agree again.
				start, end := l.dataRange()
				b[start+rng.Intn(end-start)] = byte(rng.Intn(256))
				reseal(l, b)

				got, err := c.Decode(r.Number, b)
				if err != nil {
					continue
				}
				accepted++

				again, err := c.Encode(got)
				if err != nil {
					t.Fatalf("Encode(Decode(b)) error = %v", err)
				}
				if !bytes.Equal(again, b) {
					t.Fatalf("Encode(Decode(b)) =\n% X\nwant\n% X", again, b)
				}
			}

			if accepted == 0 {
				t.Fatal("no perturbed record was accepted")
			}
		})
	}
}

func TestNewRejectsInvalidLayout(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) expected error, got nil")
	}
	if _, err := New(&Layout{Name: "broken"}); err == nil {
		t.Error("New(broken) expected error, got nil")
	}
}
