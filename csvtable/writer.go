package csvtable

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/moffa90/go-radiomem/channel"
)

// Write writes records as a channel table: a header row, then one row per
// record sorted by channel number, empty slots included.
//
// The name column is always quoted; other fields are quoted only when they
// contain a delimiter, quote or line break. Rows end with "\n".
// The clarifier_hz column is added only when a record has a clarifier offset.
//
// Example:
//
//	err := csvtable.Write(os.Stdout, image.Records())
func Write(w io.Writer, records []channel.Record) error {
	sorted := append([]channel.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	for i, rec := range sorted {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("channel %d: %w", rec.Number, err)
		}
		if i > 0 && sorted[i-1].Number == rec.Number {
			return fmt.Errorf("channel %d appears more than once", rec.Number)
		}
	}

	header := Columns
	clarifier := false
	for _, rec := range sorted {
		if !rec.IsEmpty() && rec.Clarifier != 0 {
			clarifier = true
			header = append(append([]string(nil), Columns...), ColumnClarifier)
			break
		}
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(header, ",") + "\n"); err != nil {
		return err
	}
	for _, rec := range sorted {
		if _, err := bw.WriteString(formatRow(rec, clarifier)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes records to the file at path, replacing it.
func WriteFile(path string, records []channel.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// formatRow renders one record, empty records as n,0,0,,NONE,0,"",0x00.
func formatRow(rec channel.Record, clarifier bool) string {
	if rec.IsEmpty() {
		rec = channel.Empty(rec.Number)
	}

	mode := ""
	if !rec.IsEmpty() {
		mode = rec.Mode.String()
	}

	fields := []string{
		strconv.Itoa(rec.Number),
		strconv.FormatUint(uint64(rec.Frequency), 10),
		strconv.FormatInt(int64(rec.Offset), 10),
		quoteIfNeeded(mode),
		quoteIfNeeded(rec.Tone.String()),
		strconv.FormatUint(uint64(rec.ToneValue), 10),
		quote(rec.Name),
		rec.Flags.String(),
	}
	if clarifier {
		fields = append(fields, strconv.FormatInt(int64(rec.Clarifier), 10))
	}
	return strings.Join(fields, ",") + "\n"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
