package protocol

import "fmt"

// Identity is the radio identification returned by the Identify command.
type Identity struct {
	// ModelID identifies the radio family and its memory layout
	ModelID uint16

	// Revision is the firmware revision
	Revision byte
}

func (i Identity) String() string {
	return fmt.Sprintf("model 0x%04X rev %d", i.ModelID, i.Revision)
}
