package protocol

// Frame structure constants.
const (
	// StartOfPacket is the frame start marker (0x01)
	StartOfPacket = 0x01

	// EndOfPacket is the frame end marker (0x17)
	EndOfPacket = 0x17

	// HeaderSize is the number of bytes before the data:
	// SOP(1) + CMD/STATUS(1) + LEN(2)
	HeaderSize = 4

	// MinFrameSize is the minimum frame size in bytes:
	// SOP(1) + CMD/STATUS(1) + LEN(2) + CHECKSUM(2) + EOP(1)
	MinFrameSize = 7
)

// Command codes.
const (
	// CmdIdentify asks the radio for its model ID and firmware revision
	CmdIdentify = 0x49

	// CmdReadBlock reads one block of channel memory
	CmdReadBlock = 0x52

	// CmdWriteBlock writes one block of channel memory
	CmdWriteBlock = 0x57

	// CmdEndSession returns the radio to normal operation
	CmdEndSession = 0x45
)

// Status/Error codes returned in the CMD position of a response.
const (
	// StatusSuccess indicates command was successfully received and executed
	StatusSuccess = 0x00

	// ErrLength indicates data amount is outside expected range
	ErrLength = 0x03

	// ErrData indicates data is not of proper form
	ErrData = 0x04

	// ErrCommand indicates command is not recognized
	ErrCommand = 0x05

	// ErrChecksum indicates packet checksum doesn't match expected value
	ErrChecksum = 0x08

	// ErrAddress indicates the block address is unaligned or out of range
	ErrAddress = 0x0A

	// ErrBusy indicates the radio cannot accept memory access right now
	ErrBusy = 0x0B

	// ErrUnknown indicates an unknown error occurred
	ErrUnknown = 0x0F
)

// MaxDataSize is the maximum data payload size per packet.
const MaxDataSize = 1024

// Payload sizes.
const (
	// AddressSize is the size of a block address (4 bytes, little-endian)
	AddressSize = 4

	// IdentifyResponseSize is the data size for Identify response (3 bytes)
	IdentifyResponseSize = 3

	// ReadBlockRequestSize is the data size for Read Block command (6 bytes)
	ReadBlockRequestSize = AddressSize + 2

	// DefaultResponseBufferSize is the default buffer size for reading responses
	DefaultResponseBufferSize = MinFrameSize + MaxDataSize
)
