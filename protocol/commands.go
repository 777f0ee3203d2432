package protocol

import (
	"encoding/binary"
	"fmt"
)

// buildFrame wraps data into a complete frame with the given command or
// status byte in the CMD position.
//
// Frame structure:
//
//	[SOP][CMD][LEN_L][LEN_H][DATA...][CHECKSUM_L][CHECKSUM_H][EOP]
func buildFrame(code byte, data []byte) []byte {
	frame := make([]byte, 0, MinFrameSize+len(data))

	// Start of packet
	frame = append(frame, StartOfPacket)

	// Command or status
	frame = append(frame, code)

	// Data length (little-endian)
	lenBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenBytes, uint16(len(data)))
	frame = append(frame, lenBytes...)

	frame = append(frame, data...)

	// Calculate and append checksum (exclude SOP, include everything else up to checksum)
	checksum := calculatePacketChecksum(frame[1:])
	checksumBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(checksumBytes, checksum)
	frame = append(frame, checksumBytes...)

	// End of packet
	frame = append(frame, EndOfPacket)

	return frame
}

// BuildIdentifyCmd constructs an Identify command frame.
//
// Frame structure:
//
//	[SOP][CMD][LEN_L][LEN_H][CHECKSUM_L][CHECKSUM_H][EOP]
func BuildIdentifyCmd() ([]byte, error) {
	return buildFrame(CmdIdentify, nil), nil
}

// BuildReadBlockCmd constructs a Read Block command frame asking for size
// bytes starting at addr.
//
// Frame structure:
//
//	[SOP][CMD][LEN_L][LEN_H][ADDR(4)][SIZE_L][SIZE_H][CHECKSUM_L][CHECKSUM_H][EOP]
func BuildReadBlockCmd(addr uint32, size uint16) ([]byte, error) {
	if size == 0 {
		return nil, fmt.Errorf("block size cannot be zero")
	}
	if int(size)+AddressSize > MaxDataSize {
		return nil, fmt.Errorf("block size %d exceeds maximum %d bytes", size, MaxDataSize-AddressSize)
	}

	data := make([]byte, ReadBlockRequestSize)
	binary.LittleEndian.PutUint32(data[0:4], addr)
	binary.LittleEndian.PutUint16(data[4:6], size)

	return buildFrame(CmdReadBlock, data), nil
}

// BuildWriteBlockCmd constructs a Write Block command frame carrying one
// block of channel memory.
//
// Frame structure:
//
//	[SOP][CMD][LEN_L][LEN_H][ADDR(4)][DATA...][CHECKSUM_L][CHECKSUM_H][EOP]
func BuildWriteBlockCmd(addr uint32, block []byte) ([]byte, error) {
	if len(block) == 0 {
		return nil, fmt.Errorf("data cannot be empty")
	}
	if len(block)+AddressSize > MaxDataSize {
		return nil, fmt.Errorf("data length %d exceeds maximum %d bytes", len(block), MaxDataSize-AddressSize)
	}

	data := make([]byte, 0, AddressSize+len(block))
	addrBytes := make([]byte, AddressSize)
	binary.LittleEndian.PutUint32(addrBytes, addr)
	data = append(data, addrBytes...)
	data = append(data, block...)

	return buildFrame(CmdWriteBlock, data), nil
}

// BuildEndSessionCmd constructs an End Session command frame.
// The radio leaves memory access mode after acknowledging it.
//
// Frame structure:
//
//	[SOP][CMD][LEN_L][LEN_H][CHECKSUM_L][CHECKSUM_H][EOP]
func BuildEndSessionCmd() ([]byte, error) {
	return buildFrame(CmdEndSession, nil), nil
}

// BuildResponse constructs a response frame as the radio sends it.
// It is used by simulators and tests standing in for a radio.
//
// Frame structure:
//
//	[SOP][STATUS][LEN_L][LEN_H][DATA...][CHECKSUM_L][CHECKSUM_H][EOP]
func BuildResponse(status byte, data []byte) ([]byte, error) {
	if len(data) > MaxDataSize {
		return nil, fmt.Errorf("data length %d exceeds maximum %d bytes", len(data), MaxDataSize)
	}
	return buildFrame(status, data), nil
}

// BuildIdentifyResponse constructs the data of a successful Identify response.
//
// Data format (IdentifyResponseSize bytes):
//
//	[MODEL_L][MODEL_H][REVISION]
func BuildIdentifyResponse(id Identity) []byte {
	data := make([]byte, IdentifyResponseSize)
	binary.LittleEndian.PutUint16(data[0:2], id.ModelID)
	data[2] = id.Revision
	return data
}

// BuildReadBlockResponse constructs the data of a successful Read Block
// response: the echoed address followed by the block.
func BuildReadBlockResponse(addr uint32, block []byte) []byte {
	data := make([]byte, AddressSize+len(block))
	binary.LittleEndian.PutUint32(data[0:4], addr)
	copy(data[AddressSize:], block)
	return data
}
