package csvtable

import (
	"fmt"
	"io"
	"os"
)

// Problem is one invalid row found by Check.
type Problem struct {
	// Row is the line number of the row, the header being line 1
	Row int

	Err error
}

func (p Problem) String() string {
	return fmt.Sprintf("row %d: %v", p.Row, p.Err)
}

// Report summarises a Check run.
type Report struct {
	// Valid is the number of rows that parsed into a valid record
	Valid int

	// Invalid is the number of rows with a problem
	Invalid int

	// Problems lists every problem in file order
	Problems []Problem
}

// OK reports whether the table had no problems.
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

// Check validates every row of a channel table, collecting all problems
// instead of stopping at the first one. Header errors are returned as an
// error because no row can be interpreted without a header.
//
// Example:
//
//	report, err := csvtable.Check(f)
//	for _, p := range report.Problems {
//	    fmt.Println(p)
//	}
func Check(r io.Reader, opts ...Option) (*Report, error) {
	p, err := newParser(r, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for {
		_, err := p.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			row, ok := problemRow(err)
			if !ok {
				return nil, err
			}
			report.Invalid++
			report.Problems = append(report.Problems, Problem{Row: row, Err: err})
			continue
		}
		report.Valid++
	}

	return report, nil
}

// CheckFile runs Check on the file at path.
func CheckFile(path string, opts ...Option) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Check(f, opts...)
}

// problemRow returns the row of a row-level error. Other errors end the check.
func problemRow(err error) (int, bool) {
	switch e := err.(type) {
	case *InvalidFieldValueError:
		return e.Row, true
	case *DuplicateChannelNumberError:
		return e.Row, true
	case *SyntaxError:
		return e.Row, true
	}
	return 0, false
}
