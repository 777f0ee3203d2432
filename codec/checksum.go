package codec

import "fmt"

// Algorithm identifies a record checksum algorithm.
type Algorithm int

// Checksum algorithms.
const (
	// Sum8TwosComplement sums all bytes modulo 256, then takes the 2's complement
	Sum8TwosComplement Algorithm = iota

	// Sum8OnesComplement sums all bytes modulo 256, then inverts every bit
	Sum8OnesComplement

	// XOR8 XORs all bytes together
	XOR8

	// CRC16CCITT is CRC-16-CCITT (poly 0x1021, init 0xFFFF, no final XOR), stored big-endian
	CRC16CCITT
)

// CRC-16 constants.
const (
	// CRC16Polynomial is the CRC-16-CCITT polynomial (0x1021)
	CRC16Polynomial = 0x1021

	// CRC16InitialValue is the CRC-16 initial value
	CRC16InitialValue = 0xFFFF

	// CRC16HighBitMask is the high bit mask for CRC-16 calculations
	CRC16HighBitMask = 0x8000

	// BitsPerByte is the number of bits per byte
	BitsPerByte = 8
)

// Size returns the number of checksum bytes the algorithm produces.
func (a Algorithm) Size() int {
	if a == CRC16CCITT {
		return 2
	}
	return 1
}

// Valid reports whether a is a known algorithm.
func (a Algorithm) Valid() bool {
	return a >= Sum8TwosComplement && a <= CRC16CCITT
}

func (a Algorithm) String() string {
	switch a {
	case Sum8TwosComplement:
		return "sum8-twos-complement"
	case Sum8OnesComplement:
		return "sum8-ones-complement"
	case XOR8:
		return "xor8"
	case CRC16CCITT:
		return "crc16-ccitt"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// Sum computes the checksum of data.
func (a Algorithm) Sum(data []byte) uint16 {
	switch a {
	case Sum8TwosComplement:
		return uint16(CalculateSum8(data))
	case Sum8OnesComplement:
		var sum byte
		for _, b := range data {
			sum += b
		}
		return uint16(^sum)
	case XOR8:
		var x byte
		for _, b := range data {
			x ^= b
		}
		return uint16(x)
	case CRC16CCITT:
		return CalculateCRC16(data)
	default:
		panic(fmt.Sprintf("codec: unknown checksum algorithm %d", int(a)))
	}
}

// put writes sum into dst, big-endian, using Size() bytes.
func (a Algorithm) put(dst []byte, sum uint16) {
	if a.Size() == 2 {
		dst[0] = byte(sum >> 8)
		dst[1] = byte(sum)
		return
	}
	dst[0] = byte(sum)
}

// get reads a stored checksum from src, big-endian, using Size() bytes.
func (a Algorithm) get(src []byte) uint16 {
	if a.Size() == 2 {
		return uint16(src[0])<<8 | uint16(src[1])
	}
	return uint16(src[0])
}

// CalculateSum8 computes the 8-bit checksum of data.
// The checksum is calculated by summing all bytes and taking 2's complement,
// so that the sum of data plus checksum is zero modulo 256.
func CalculateSum8(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	// Return 2's complement: invert and add 1
	return ^sum + 1
}

// CalculateCRC16 computes CRC-16-CCITT checksum.
//
// CRC-16-CCITT parameters:
//   - Polynomial: CRC16Polynomial
//   - Initial value: CRC16InitialValue
//   - No final XOR
func CalculateCRC16(data []byte) uint16 {
	crc := uint16(CRC16InitialValue)

	for _, b := range data {
		crc ^= uint16(b) << BitsPerByte
		for i := 0; i < BitsPerByte; i++ {
			if crc&CRC16HighBitMask != 0 {
				crc = (crc << 1) ^ CRC16Polynomial
			} else {
				crc = crc << 1
			}
		}
	}

	return crc
}

// Position is where the checksum sits inside a record.
type Position int

// Checksum positions.
const (
	// Trailing places the checksum after the data bytes
	Trailing Position = iota

	// Leading places the checksum before the data bytes
	Leading
)

// Checksum describes the integrity check of one record.
type Checksum struct {
	Algorithm Algorithm
	Position  Position
}
