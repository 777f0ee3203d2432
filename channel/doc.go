// Package channel defines the in-memory model of one radio memory channel.
//
// A Record is plain data: it knows nothing about byte layouts or CSV. Its
// Validate method only checks that the record can be encoded by any layout
// (known enum values, standard tone tables, known flag bits, ASCII name).
// Whether a frequency is legal for a given band plan is left to callers.
//
// A record whose Frequency is zero is an empty slot. Empty(n) returns the
// canonical empty record for slot n.
package channel
