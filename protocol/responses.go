package protocol

import (
	"encoding/binary"
	"fmt"
)

// FrameLength returns the total length of the frame whose first HeaderSize
// bytes are given. It validates the start marker and the length field.
func FrameLength(header []byte) (int, error) {
	if len(header) < HeaderSize {
		return 0, fmt.Errorf("header too short: got %d bytes, need %d", len(header), HeaderSize)
	}
	if header[0] != StartOfPacket {
		return 0, fmt.Errorf("invalid start of packet: got 0x%02X, expected 0x%02X", header[0], StartOfPacket)
	}
	dataLen := int(binary.LittleEndian.Uint16(header[2:4]))
	if dataLen > MaxDataSize {
		return 0, fmt.Errorf("data length %d exceeds maximum %d bytes", dataLen, MaxDataSize)
	}
	return MinFrameSize + dataLen, nil
}

// parseFrame validates a complete frame and returns the CMD/STATUS byte and
// the data payload.
func parseFrame(frame []byte) (code byte, data []byte, err error) {
	if len(frame) < MinFrameSize {
		return 0, nil, fmt.Errorf("frame too short: got %d bytes, minimum is %d", len(frame), MinFrameSize)
	}

	if frame[0] != StartOfPacket {
		return 0, nil, fmt.Errorf("invalid start of packet: got 0x%02X, expected 0x%02X", frame[0], StartOfPacket)
	}

	if frame[len(frame)-1] != EndOfPacket {
		return 0, nil, fmt.Errorf("invalid end of packet: got 0x%02X, expected 0x%02X", frame[len(frame)-1], EndOfPacket)
	}

	code = frame[1]
	dataLen := binary.LittleEndian.Uint16(frame[2:4])

	expectedLen := MinFrameSize + int(dataLen)
	if len(frame) != expectedLen {
		return 0, nil, fmt.Errorf("frame length mismatch: got %d bytes, expected %d (MinFrameSize=%d + dataLen=%d)",
			len(frame), expectedLen, MinFrameSize, dataLen)
	}

	// Verify checksum
	checksumExpected := binary.LittleEndian.Uint16(frame[len(frame)-3 : len(frame)-1])
	checksumActual := calculatePacketChecksum(frame[1 : len(frame)-3])

	if checksumExpected != checksumActual {
		return 0, nil, fmt.Errorf("checksum mismatch: got 0x%04X, expected 0x%04X",
			checksumActual, checksumExpected)
	}

	// Extract data if present
	if dataLen > 0 {
		data = frame[HeaderSize : HeaderSize+int(dataLen)]
	}

	return code, data, nil
}

// ParseResponse extracts status code and data from a response frame.
// Validates frame structure, length, and checksum.
//
// Response frame structure:
//
//	[SOP][STATUS][LEN_L][LEN_H][DATA...][CHECKSUM_L][CHECKSUM_H][EOP]
//
// Returns the status code, data payload, and any validation error.
func ParseResponse(frame []byte) (statusCode byte, data []byte, err error) {
	return parseFrame(frame)
}

// ParseCommand extracts the command code and data from a command frame.
// It is the radio-side counterpart of ParseResponse.
func ParseCommand(frame []byte) (cmd byte, data []byte, err error) {
	return parseFrame(frame)
}

// ParseIdentifyResponse parses the Identify command response.
//
// Data format (IdentifyResponseSize bytes):
//
//	[MODEL_L][MODEL_H][REVISION]
func ParseIdentifyResponse(data []byte) (*Identity, error) {
	if len(data) != IdentifyResponseSize {
		return nil, fmt.Errorf("invalid data length for Identify response: got %d bytes, expected %d", len(data), IdentifyResponseSize)
	}

	id := &Identity{
		ModelID:  binary.LittleEndian.Uint16(data[0:2]),
		Revision: data[2],
	}

	return id, nil
}

// ParseReadBlockResponse parses the Read Block command response and checks
// that it answers the request for size bytes at addr.
//
// Data format:
//
//	[ADDR(4)][PAYLOAD(size)]
func ParseReadBlockResponse(data []byte, addr uint32, size int) ([]byte, error) {
	if len(data) != AddressSize+size {
		return nil, fmt.Errorf("invalid data length for Read Block response: got %d bytes, expected %d", len(data), AddressSize+size)
	}

	echoed := binary.LittleEndian.Uint32(data[0:4])
	if echoed != addr {
		return nil, fmt.Errorf("address mismatch in Read Block response: got 0x%08X, expected 0x%08X", echoed, addr)
	}

	return data[AddressSize:], nil
}

// ParseReadBlockCmd parses the data of a Read Block command.
//
// Data format (ReadBlockRequestSize bytes):
//
//	[ADDR(4)][SIZE_L][SIZE_H]
func ParseReadBlockCmd(data []byte) (addr uint32, size uint16, err error) {
	if len(data) != ReadBlockRequestSize {
		return 0, 0, fmt.Errorf("invalid data length for Read Block command: got %d bytes, expected %d", len(data), ReadBlockRequestSize)
	}
	return binary.LittleEndian.Uint32(data[0:4]), binary.LittleEndian.Uint16(data[4:6]), nil
}

// ParseWriteBlockCmd parses the data of a Write Block command.
//
// Data format:
//
//	[ADDR(4)][PAYLOAD...]
func ParseWriteBlockCmd(data []byte) (addr uint32, block []byte, err error) {
	if len(data) <= AddressSize {
		return 0, nil, fmt.Errorf("invalid data length for Write Block command: got %d bytes, need more than %d", len(data), AddressSize)
	}
	return binary.LittleEndian.Uint32(data[0:4]), data[AddressSize:], nil
}
