package protocol

import (
	"bytes"
	"testing"
)

func TestBuildIdentifyCmd(t *testing.T) {
	frame, err := BuildIdentifyCmd()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []byte{StartOfPacket, CmdIdentify, 0x00, 0x00, 0xB7, 0xFF, EndOfPacket}
	if !bytes.Equal(frame, want) {
		t.Errorf("frame = % X, want % X", frame, want)
	}
}

func TestBuildEndSessionCmd(t *testing.T) {
	frame, err := BuildEndSessionCmd()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(frame) != MinFrameSize {
		t.Errorf("frame length = %d, want %d", len(frame), MinFrameSize)
	}
	if frame[1] != CmdEndSession {
		t.Errorf("CMD = 0x%02X, want 0x%02X", frame[1], CmdEndSession)
	}
}

func TestBuildReadBlockCmd(t *testing.T) {
	tests := []struct {
		name    string
		addr    uint32
		size    uint16
		want    []byte
		wantErr bool
		errMsg  string
	}{
		{
			name: "reference block",
			addr: 0x1000,
			size: 128,
			want: []byte{
				StartOfPacket, CmdReadBlock, 0x06, 0x00,
				0x00, 0x10, 0x00, 0x00, // address
				0x80, 0x00, // size
				0x18, 0xFF, // checksum
				EndOfPacket,
			},
		},
		{
			name:    "zero size",
			addr:    0x1000,
			size:    0,
			wantErr: true,
			errMsg:  "cannot be zero",
		},
		{
			name:    "size too large",
			addr:    0x1000,
			size:    MaxDataSize,
			wantErr: true,
			errMsg:  "exceeds maximum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := BuildReadBlockCmd(tt.addr, tt.size)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !bytes.Contains([]byte(err.Error()), []byte(tt.errMsg)) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(frame, tt.want) {
				t.Errorf("frame = % X, want % X", frame, tt.want)
			}
		})
	}
}

func TestBuildWriteBlockCmd(t *testing.T) {
	tests := []struct {
		name    string
		addr    uint32
		data    []byte
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid small block",
			addr: 0x0030,
			data: []byte{0x01, 0x02, 0x03, 0x04},
		},
		{
			name: "valid large block",
			addr: 0x1C00,
			data: make([]byte, 128),
		},
		{
			name:    "empty data",
			data:    []byte{},
			wantErr: true,
			errMsg:  "data cannot be empty",
		},
		{
			name:    "nil data",
			data:    nil,
			wantErr: true,
			errMsg:  "data cannot be empty",
		},
		{
			name:    "data too large",
			data:    make([]byte, MaxDataSize),
			wantErr: true,
			errMsg:  "exceeds maximum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := BuildWriteBlockCmd(tt.addr, tt.data)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !bytes.Contains([]byte(err.Error()), []byte(tt.errMsg)) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if frame[0] != StartOfPacket {
				t.Errorf("SOP = 0x%02X, want 0x%02X", frame[0], StartOfPacket)
			}
			if frame[len(frame)-1] != EndOfPacket {
				t.Errorf("EOP = 0x%02X, want 0x%02X", frame[len(frame)-1], EndOfPacket)
			}

			// The radio must be able to take the frame apart again.
			cmd, data, err := ParseCommand(frame)
			if err != nil {
				t.Fatalf("ParseCommand() error = %v", err)
			}
			if cmd != CmdWriteBlock {
				t.Errorf("CMD = 0x%02X, want 0x%02X", cmd, CmdWriteBlock)
			}
			addr, block, err := ParseWriteBlockCmd(data)
			if err != nil {
				t.Fatalf("ParseWriteBlockCmd() error = %v", err)
			}
			if addr != tt.addr {
				t.Errorf("addr = 0x%04X, want 0x%04X", addr, tt.addr)
			}
			if !bytes.Equal(block, tt.data) {
				t.Errorf("block = % X, want % X", block, tt.data)
			}
		})
	}
}

func TestReadBlockCmdRoundTrip(t *testing.T) {
	frame, err := BuildReadBlockCmd(0x0030, 48)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cmd, data, err := ParseCommand(frame)
	if err != nil {
		t.Fatalf("ParseCommand() error = %v", err)
	}
	if cmd != CmdReadBlock {
		t.Errorf("CMD = 0x%02X, want 0x%02X", cmd, CmdReadBlock)
	}

	addr, size, err := ParseReadBlockCmd(data)
	if err != nil {
		t.Fatalf("ParseReadBlockCmd() error = %v", err)
	}
	if addr != 0x0030 || size != 48 {
		t.Errorf("ParseReadBlockCmd() = 0x%04X, %d, want 0x0030, 48", addr, size)
	}
}
