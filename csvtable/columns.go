package csvtable

// Column names, in the order Write emits them.
const (
	ColumnChannelNumber = "channel_number"
	ColumnFrequency     = "frequency_hz"
	ColumnOffset        = "offset_hz"
	ColumnMode          = "mode"
	ColumnToneMode      = "tone_mode"
	ColumnToneValue     = "tone_value"
	ColumnName          = "name"
	ColumnFlags         = "flags"
	ColumnClarifier     = "clarifier_hz"
)

// Columns lists every known column in output order.
var Columns = []string{
	ColumnChannelNumber,
	ColumnFrequency,
	ColumnOffset,
	ColumnMode,
	ColumnToneMode,
	ColumnToneValue,
	ColumnName,
	ColumnFlags,
}

// OptionalColumns are known columns Write emits only when a record needs
// them, after Columns.
var OptionalColumns = []string{
	ColumnClarifier,
}

// RequiredColumns must be present in every header.
// Missing optional columns take their zero values.
var RequiredColumns = []string{
	ColumnChannelNumber,
	ColumnFrequency,
}

func knownColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	for _, c := range OptionalColumns {
		if c == name {
			return true
		}
	}
	return false
}
