package protocol

import "fmt"

// StatusError represents a non-success status returned by the radio.
type StatusError struct {
	// Operation is the command that failed
	Operation string

	// StatusCode is the error code from the radio
	StatusCode byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: %s (0x%02X)", e.Operation, StatusName(e.StatusCode), e.StatusCode)
}

// IsStatusError returns true if the error is a StatusError.
func IsStatusError(err error) bool {
	_, ok := err.(*StatusError)
	return ok
}

// StatusName returns a human-readable name for a status code.
func StatusName(code byte) string {
	switch code {
	case StatusSuccess:
		return "success"
	case ErrLength:
		return "invalid length"
	case ErrData:
		return "invalid data"
	case ErrCommand:
		return "unrecognized command"
	case ErrChecksum:
		return "checksum mismatch"
	case ErrAddress:
		return "invalid address"
	case ErrBusy:
		return "radio busy"
	case ErrUnknown:
		return "unknown error"
	default:
		return fmt.Sprintf("unknown status code 0x%02X", code)
	}
}

// CommandName returns a human-readable name for a command code.
func CommandName(cmd byte) string {
	switch cmd {
	case CmdIdentify:
		return "identify"
	case CmdReadBlock:
		return "read block"
	case CmdWriteBlock:
		return "write block"
	case CmdEndSession:
		return "end session"
	default:
		return fmt.Sprintf("command 0x%02X", cmd)
	}
}
