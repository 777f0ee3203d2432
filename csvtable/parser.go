package csvtable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/moffa90/go-radiomem/channel"
)

// utf8BOM is stripped from the first header cell.
const utf8BOM = "\uFEFF"

// Parse parses a channel table from the given file path.
// Returns the records sorted by channel number.
//
// Example:
//
//	records, err := csvtable.Parse("channels.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Parse(path string, opts ...Option) ([]channel.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f, opts...)
}

// ParseReader parses a channel table from any io.Reader.
// It stops at the first invalid row.
//
// Example:
//
//	data := strings.NewReader("channel_number,frequency_hz\n1,145500000\n")
//	records, err := csvtable.ParseReader(data)
func ParseReader(r io.Reader, opts ...Option) ([]channel.Record, error) {
	p, err := newParser(r, opts)
	if err != nil {
		return nil, err
	}

	var records []channel.Record
	for {
		rec, err := p.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Number < records[j].Number })
	return records, nil
}

// parser maps header positions to columns and converts rows to records.
type parser struct {
	reader  *csv.Reader
	config  Config
	columns map[string]int
	seen    map[int]int // channel number -> row
}

func newParser(r io.Reader, opts []Option) (*parser, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	p := &parser{
		reader:  reader,
		config:  cfg,
		columns: make(map[string]int, len(header)),
		seen:    make(map[int]int),
	}

	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)

		if !knownColumn(name) {
			if !cfg.Lenient {
				return nil, &UnknownColumnError{Column: name, Position: i + 1}
			}
			cfg.Logger.Warnw("ignoring unknown column", "column", name, "position", i+1)
			continue
		}
		if _, dup := p.columns[name]; dup {
			return nil, fmt.Errorf("column %q appears more than once in the header", name)
		}
		p.columns[name] = i
	}

	for _, name := range RequiredColumns {
		if _, ok := p.columns[name]; !ok {
			return nil, &MissingRequiredColumnError{Column: name}
		}
	}

	return p, nil
}

// next reads and converts the next row. It returns io.EOF after the last row.
func (p *parser) next() (channel.Record, error) {
	fields, err := p.reader.Read()
	if err != nil {
		if err == io.EOF {
			return channel.Record{}, io.EOF
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return channel.Record{}, &SyntaxError{Row: pe.StartLine, Err: pe.Err}
		}
		return channel.Record{}, fmt.Errorf("failed to read file: %w", err)
	}

	row, _ := p.reader.FieldPos(0)
	rec, err := p.parseRow(fields, row)
	if err != nil {
		return channel.Record{}, err
	}

	if first, dup := p.seen[rec.Number]; dup {
		return channel.Record{}, &DuplicateChannelNumberError{Channel: rec.Number, FirstRow: first, Row: row}
	}
	p.seen[rec.Number] = row

	return rec, nil
}

func (p *parser) parseRow(fields []string, row int) (channel.Record, error) {
	value := func(column string) (string, bool) {
		i, ok := p.columns[column]
		if !ok {
			return "", false
		}
		return fields[i], true
	}
	invalid := func(column, v string, err error) error {
		return &InvalidFieldValueError{Column: column, Row: row, Value: v, Err: err}
	}

	var rec channel.Record

	v, _ := value(ColumnChannelNumber)
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return rec, invalid(ColumnChannelNumber, v, numError(err))
	}
	rec.Number = n

	v, _ = value(ColumnFrequency)
	freq, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
	if err != nil {
		return rec, invalid(ColumnFrequency, v, numError(err))
	}
	rec.Frequency = uint32(freq)

	if v, ok := value(ColumnOffset); ok && strings.TrimSpace(v) != "" {
		off, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return rec, invalid(ColumnOffset, v, numError(err))
		}
		rec.Offset = int32(off)
	}

	if v, ok := value(ColumnClarifier); ok && strings.TrimSpace(v) != "" {
		clar, err := strconv.ParseInt(strings.TrimSpace(v), 10, 16)
		if err != nil {
			return rec, invalid(ColumnClarifier, v, numError(err))
		}
		rec.Clarifier = int16(clar)
	}

	if v, ok := value(ColumnMode); ok && strings.TrimSpace(v) != "" {
		m, err := channel.ParseMode(v)
		if err != nil {
			return rec, invalid(ColumnMode, v, err)
		}
		rec.Mode = m
	}

	if v, ok := value(ColumnToneMode); ok && strings.TrimSpace(v) != "" {
		t, err := channel.ParseToneMode(v)
		if err != nil {
			return rec, invalid(ColumnToneMode, v, err)
		}
		rec.Tone = t
	}

	if v, ok := value(ColumnToneValue); ok && strings.TrimSpace(v) != "" {
		tv, err := strconv.ParseUint(strings.TrimSpace(v), 10, 16)
		if err != nil {
			return rec, invalid(ColumnToneValue, v, numError(err))
		}
		rec.ToneValue = uint16(tv)
	}

	if v, ok := value(ColumnName); ok {
		rec.Name = v
	}

	if v, ok := value(ColumnFlags); ok && strings.TrimSpace(v) != "" {
		f, err := channel.ParseFlags(v)
		if err != nil {
			return rec, invalid(ColumnFlags, v, err)
		}
		rec.Flags = f
	}

	if rec.IsEmpty() {
		return channel.Empty(rec.Number), validateNumber(rec.Number, row)
	}

	if err := rec.Validate(); err != nil {
		var fe *channel.FieldError
		if errors.As(err, &fe) {
			raw, _ := value(fe.Field)
			return rec, invalid(fe.Field, raw, errors.New(fe.Reason))
		}
		return rec, invalid("record", "", err)
	}

	return rec, nil
}

func validateNumber(n, row int) error {
	if err := channel.Empty(n).Validate(); err != nil {
		var fe *channel.FieldError
		if errors.As(err, &fe) {
			return &InvalidFieldValueError{Column: fe.Field, Row: row, Value: fe.Value, Err: errors.New(fe.Reason)}
		}
		return err
	}
	return nil
}

// numError drops the strconv function name from parse errors.
func numError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}
