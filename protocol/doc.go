// Package protocol implements the memory-access wire protocol spoken by the radio.
//
// This package provides functions to build command frames and parse response
// frames. It holds no state; retries and timeouts live in package session.
//
// # Protocol Overview
//
// The protocol uses a packet-based communication structure:
//
//	Command:  [SOP][CMD][LEN_L][LEN_H][DATA...][CHECKSUM_L][CHECKSUM_H][EOP]
//	Response: [SOP][STATUS][LEN_L][LEN_H][DATA...][CHECKSUM_L][CHECKSUM_H][EOP]
//
// Where:
//   - SOP = Start of Packet (0x01)
//   - EOP = End of Packet (0x17)
//   - LEN = 16-bit data length (little-endian)
//   - CHECKSUM = 16-bit checksum (little-endian, 2's complement of the byte
//     sum from CMD through DATA)
//
// # Commands
//
//	Identify    0x49  -> [MODEL(2)][REV]
//	Read Block  0x52  [ADDR(4)][SIZE(2)] -> [ADDR(4)][PAYLOAD]
//	Write Block 0x57  [ADDR(4)][PAYLOAD] -> (empty)
//	End Session 0x45  -> (empty)
//
// Use the Build* functions to create command frames:
//
//	frame, err := protocol.BuildReadBlockCmd(0x1000, 128)
//
// # Response Parsers
//
// Use ParseResponse to validate and extract data from response frames:
//
//	statusCode, data, err := protocol.ParseResponse(frame)
//	if statusCode != protocol.StatusSuccess {
//	    return &protocol.StatusError{Operation: "read block", StatusCode: statusCode}
//	}
//
// Then use the Parse* functions for command-specific data:
//
//	id, err := protocol.ParseIdentifyResponse(data)
//	block, err := protocol.ParseReadBlockResponse(data, addr, size)
//
// The radio side of the exchange (ParseCommand, BuildResponse) is provided
// for simulators.
package protocol
