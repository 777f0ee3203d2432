// Package port provides session.Port implementations for real links: a
// local serial device (Serial) and a TCP connection to a serial bridge
// (Conn).
package port
