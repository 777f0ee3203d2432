package channel

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode is the operating mode of a channel.
// Values are the mode codes the radio stores in memory.
type Mode byte

// Operating modes.
const (
	ModeLSB     Mode = 0x01
	ModeUSB     Mode = 0x02
	ModeCWU     Mode = 0x03
	ModeFM      Mode = 0x04
	ModeAM      Mode = 0x05
	ModeRTTYL   Mode = 0x06
	ModeCWL     Mode = 0x07
	ModeDataL   Mode = 0x08
	ModeRTTYU   Mode = 0x09
	ModeDataFM  Mode = 0x0A
	ModeFMN     Mode = 0x0B
	ModeDataU   Mode = 0x0C
	ModeAMN     Mode = 0x0D
	ModePSK     Mode = 0x0E
	ModeDataFMN Mode = 0x0F
)

var modeNames = map[Mode]string{
	ModeLSB:     "LSB",
	ModeUSB:     "USB",
	ModeCWU:     "CW-U",
	ModeFM:      "FM",
	ModeAM:      "AM",
	ModeRTTYL:   "RTTY-L",
	ModeCWL:     "CW-L",
	ModeDataL:   "DATA-L",
	ModeRTTYU:   "RTTY-U",
	ModeDataFM:  "DATA-FM",
	ModeFMN:     "FM-N",
	ModeDataU:   "DATA-U",
	ModeAMN:     "AM-N",
	ModePSK:     "PSK",
	ModeDataFMN: "DATA-FM-N",
}

// modeAliases are accepted by ParseMode but never produced by String.
var modeAliases = map[string]Mode{
	"CW":   ModeCWU,
	"DATA": ModeDataU,
}

// Modes returns every operating mode in code order.
func Modes() []Mode {
	modes := make([]Mode, 0, len(modeNames))
	for m := ModeLSB; m <= ModeDataFMN; m++ {
		modes = append(modes, m)
	}
	return modes
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(0x%02X)", byte(m))
}

// ParseMode converts a canonical mode name (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	if m, ok := modeAliases[name]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// ToneMode selects the squelch tone system of a channel.
type ToneMode byte

// Tone modes.
const (
	// ToneNone disables tone squelch
	ToneNone ToneMode = 0x00

	// ToneCTCSS encodes and decodes a CTCSS tone
	ToneCTCSS ToneMode = 0x01

	// ToneCTCSSEncode only encodes a CTCSS tone on transmit
	ToneCTCSSEncode ToneMode = 0x02

	// ToneDCS encodes and decodes a DCS code
	ToneDCS ToneMode = 0x03
)

var toneModeNames = map[ToneMode]string{
	ToneNone:        "NONE",
	ToneCTCSS:       "CTCSS",
	ToneCTCSSEncode: "CTCSS-ENC",
	ToneDCS:         "DCS",
}

// Valid reports whether t is a known tone mode.
func (t ToneMode) Valid() bool {
	_, ok := toneModeNames[t]
	return ok
}

func (t ToneMode) String() string {
	if name, ok := toneModeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ToneMode(0x%02X)", byte(t))
}

// ParseToneMode converts a canonical tone mode name (case-insensitive) to a ToneMode.
func ParseToneMode(s string) (ToneMode, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for t, n := range toneModeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tone mode %q", s)
}

// Flags is the set of boolean channel attributes.
type Flags byte

// Channel flags.
const (
	// FlagSkip excludes the channel from memory scan
	FlagSkip Flags = 1 << iota

	// FlagRxClarifier enables the receive clarifier
	FlagRxClarifier

	// FlagTxClarifier enables the transmit clarifier
	FlagTxClarifier
)

const knownFlags = FlagSkip | FlagRxClarifier | FlagTxClarifier

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagSkip, "skip"},
	{FlagRxClarifier, "rx-clarifier"},
	{FlagTxClarifier, "tx-clarifier"},
}

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// String renders the flags as a two-digit hex byte, e.g. "0x05".
func (f Flags) String() string {
	return fmt.Sprintf("0x%02X", byte(f))
}

// Names renders the set flags as a comma separated list of names.
func (f Flags) Names() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	if rest := f &^ knownFlags; rest != 0 {
		names = append(names, rest.String())
	}
	return strings.Join(names, ",")
}

// ParseFlags parses a flag byte in decimal, hex ("0x05") or binary ("0b101") form.
func ParseFlags(s string) (Flags, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid flags %q: %w", s, err)
	}
	f := Flags(v)
	if f&^knownFlags != 0 {
		return 0, fmt.Errorf("invalid flags %q: unknown bits 0x%02X", s, byte(f&^knownFlags))
	}
	return f, nil
}
