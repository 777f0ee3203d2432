// Package radiosim provides an in-memory radio that speaks the memory-access
// protocol. It implements session.Port, so sessions and transfers can run
// against it without hardware:
//
//	radio := radiosim.New(codec.Reference)
//	radio.Program(channel.Record{Number: 1, Frequency: 145500000, Mode: channel.ModeFM})
//	s := session.New(radio, codec.Reference)
//
// Faults can be queued to exercise retry and error paths: dropped, corrupt,
// truncated or noisy responses, rejections and busy replies.
package radiosim
