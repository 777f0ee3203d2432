package codec

import (
	"strings"
	"testing"
)

func TestBuiltinLayoutsValidate(t *testing.T) {
	for _, l := range Layouts() {
		t.Run(l.Name, func(t *testing.T) {
			if err := l.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
		})
	}
}

func TestLayoutClarifierIsOptional(t *testing.T) {
	l := *Reference
	l.Fields = nil
	for _, f := range Reference.Fields {
		if f.ID != FieldClarifier {
			l.Fields = append(l.Fields, f)
		}
	}

	if err := l.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if _, ok := PackedBCD.Field(FieldClarifier); ok {
		t.Error("PackedBCD has a clarifier field")
	}
}

func TestLayoutGeometry(t *testing.T) {
	tests := []struct {
		layout     *Layout
		blockSize  int
		blocks     int
		memorySize int
		reserved   []int
	}{
		{Reference, 128, 25, 3200, []int{27, 28, 29, 30}},
		{PackedBCD, 48, 32, 1536, nil},
	}

	for _, tt := range tests {
		t.Run(tt.layout.Name, func(t *testing.T) {
			if got := tt.layout.BlockSize(); got != tt.blockSize {
				t.Errorf("BlockSize() = %d, want %d", got, tt.blockSize)
			}
			if got := tt.layout.Blocks(); got != tt.blocks {
				t.Errorf("Blocks() = %d, want %d", got, tt.blocks)
			}
			if got := tt.layout.MemorySize(); got != tt.memorySize {
				t.Errorf("MemorySize() = %d, want %d", got, tt.memorySize)
			}

			reserved := tt.layout.reserved()
			if len(reserved) != len(tt.reserved) {
				t.Fatalf("reserved() = %v, want %v", reserved, tt.reserved)
			}
			for i := range reserved {
				if reserved[i] != tt.reserved[i] {
					t.Fatalf("reserved() = %v, want %v", reserved, tt.reserved)
				}
			}
		})
	}
}

func TestLayoutBlockIndex(t *testing.T) {
	tests := []struct {
		addr    uint32
		want    int
		wantOK  bool
		comment string
	}{
		{0x1000, 0, true, "first block"},
		{0x1080, 1, true, "second block"},
		{0x1C00, 24, true, "last block"},
		{0x1081, 0, false, "unaligned"},
		{0x0FFF, 0, false, "below base"},
		{0x1C80, 0, false, "past the table"},
	}

	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			got, ok := Reference.BlockIndex(tt.addr)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("BlockIndex(0x%04X) = %d, %v, want %d, %v", tt.addr, got, ok, tt.want, tt.wantOK)
			}
			if ok && Reference.BlockAddress(got) != tt.addr {
				t.Errorf("BlockAddress(%d) = 0x%04X, want 0x%04X", got, Reference.BlockAddress(got), tt.addr)
			}
		})
	}

	if got := Reference.FirstChannel(3); got != 13 {
		t.Errorf("FirstChannel(3) = %d, want 13", got)
	}
}

func TestLayoutValidateErrors(t *testing.T) {
	base := func() *Layout {
		l := *Reference
		l.Fields = append([]Field(nil), Reference.Fields...)
		return &l
	}

	tests := []struct {
		name   string
		mutate func(l *Layout)
		errMsg string
	}{
		{
			name:   "missing name",
			mutate: func(l *Layout) { l.Name = "" },
			errMsg: "name is required",
		},
		{
			name:   "partial block",
			mutate: func(l *Layout) { l.Channels = 99 },
			errMsg: "whole blocks",
		},
		{
			name:   "overlapping fields",
			mutate: func(l *Layout) { l.Fields[1].Offset = 2 },
			errMsg: "overlaps",
		},
		{
			name:   "field over checksum",
			mutate: func(l *Layout) { l.Fields[6].Offset = 31 },
			errMsg: "outside the data range",
		},
		{
			name:   "missing field",
			mutate: func(l *Layout) { l.Fields = l.Fields[:6] },
			errMsg: "flags is missing",
		},
		{
			name:   "duplicate field",
			mutate: func(l *Layout) { l.Fields[6].ID = FieldMode },
			errMsg: "appears twice",
		},
		{
			name:   "numeric name",
			mutate: func(l *Layout) { l.Fields[5].Encoding = UintLE },
			errMsg: "must use text encoding",
		},
		{
			name:   "unknown checksum",
			mutate: func(l *Layout) { l.Checksum.Algorithm = Algorithm(42) },
			errMsg: "unknown checksum algorithm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := base()
			tt.mutate(l)
			err := l.Validate()
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.errMsg)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, want substring %q", err, tt.errMsg)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	l, err := Lookup(" Packed-BCD ")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if l != PackedBCD {
		t.Errorf("Lookup() = %s, want %s", l.Name, PackedBCD.Name)
	}

	if _, err := Lookup("ft-991"); err == nil {
		t.Error("Lookup(unknown) expected error, got nil")
	}

	names := LayoutNames()
	if len(names) != 2 || names[0] != "packed-bcd" || names[1] != "reference" {
		t.Errorf("LayoutNames() = %v", names)
	}
}
