// Package codec converts channel records to and from the fixed-width binary
// records a radio keeps in its memory.
//
// # Layouts
//
// Each radio family stores channels differently. A Layout describes one
// family: capacity, base address, record size, how many records travel in
// one protocol block, the record checksum and where every field sits:
//
//	c, err := codec.New(codec.Reference)
//	b, err := c.Encode(rec)          // 32 bytes, checksum included
//	rec, err = c.Decode(rec.Number, b)
//
// New layouts are added by declaring another Layout value; the encoder and
// decoder are table driven.
//
// # Round trips
//
// Decode accepts only byte spans that Encode could have produced, so
// Encode(Decode(b)) == b for every accepted b. In the other direction
// Decode(Encode(r)) == Normalize(r): names are truncated to the field width
// and records with a zero frequency collapse to channel.Empty.
//
// # Errors
//
// Decode reports *LengthMismatchError, *ChecksumMismatchError and
// *MalformedRecordError. The checksum is verified before any field is
// interpreted.
package codec
