package codec

import (
	"fmt"
	"math"
)

// putNumber writes v into dst using the field encoding.
// dst is exactly the field's width.
func putNumber(dst []byte, enc Encoding, v int64) error {
	w := len(dst)
	switch enc {
	case UintLE, UintBE:
		if v < 0 {
			return fmt.Errorf("negative value %d in unsigned field", v)
		}
		if w < 8 && uint64(v) >= 1<<(8*uint(w)) {
			return fmt.Errorf("value %d does not fit in %d bytes", v, w)
		}
		putUint(dst, enc == UintBE, uint64(v))

	case IntLE, IntBE:
		if w < 8 {
			limit := int64(1) << (8*uint(w) - 1)
			if v < -limit || v >= limit {
				return fmt.Errorf("value %d does not fit in %d signed bytes", v, w)
			}
		}
		putUint(dst, enc == IntBE, uint64(v))

	case BCD:
		if v < 0 {
			return fmt.Errorf("negative value %d in BCD field", v)
		}
		digits := uint64(v)
		for i := w - 1; i >= 0; i-- {
			lo := digits % 10
			digits /= 10
			hi := digits % 10
			digits /= 10
			dst[i] = byte(hi<<4 | lo)
		}
		if digits != 0 {
			return fmt.Errorf("value %d does not fit in %d BCD digits", v, 2*w)
		}

	default:
		return fmt.Errorf("encoding %v is not numeric", enc)
	}
	return nil
}

func putUint(dst []byte, bigEndian bool, u uint64) {
	w := len(dst)
	for i := 0; i < w; i++ {
		b := byte(u >> (8 * uint(i)))
		if bigEndian {
			dst[w-1-i] = b
		} else {
			dst[i] = b
		}
	}
}

// getNumber reads a value from src using the field encoding.
func getNumber(src []byte, enc Encoding) (int64, error) {
	w := len(src)
	switch enc {
	case UintLE, UintBE:
		u := getUint(src, enc == UintBE)
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows", u)
		}
		return int64(u), nil

	case IntLE, IntBE:
		u := getUint(src, enc == IntBE)
		if w < 8 {
			shift := 64 - 8*uint(w)
			return int64(u<<shift) >> shift, nil
		}
		return int64(u), nil

	case BCD:
		var v int64
		for i, b := range src {
			hi, lo := b>>4, b&0x0F
			if hi > 9 || lo > 9 {
				return 0, fmt.Errorf("invalid BCD byte 0x%02X at position %d", b, i)
			}
			v = v*100 + int64(hi)*10 + int64(lo)
		}
		return v, nil

	default:
		return 0, fmt.Errorf("encoding %v is not numeric", enc)
	}
}

func getUint(src []byte, bigEndian bool) uint64 {
	var u uint64
	w := len(src)
	for i := 0; i < w; i++ {
		var b byte
		if bigEndian {
			b = src[w-1-i]
		} else {
			b = src[i]
		}
		u |= uint64(b) << (8 * uint(i))
	}
	return u
}

// putText writes s into dst, truncating to the width and padding with pad.
func putText(dst []byte, s string, pad byte) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = pad
	}
}

// getText reads a padded string, stripping trailing pad bytes.
func getText(src []byte, pad byte) string {
	end := len(src)
	for end > 0 && src[end-1] == pad {
		end--
	}
	return string(src[:end])
}
