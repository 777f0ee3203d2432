package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/moffa90/go-radiomem/csvtable"
	"github.com/moffa90/go-radiomem/memory"
	"github.com/moffa90/go-radiomem/session"
)

// connect opens the port and the protocol session. The returned function
// ends the session and closes the port.
func (a *app) connect(ctx context.Context) (*session.Session, func(), error) {
	p, err := a.openPort(ctx, a.opts)
	if err != nil {
		return nil, nil, err
	}

	s := session.New(p, a.opts.layout,
		session.WithTimeout(a.opts.timeout),
		session.WithMaxAttempts(a.opts.retries),
		session.WithLogger(a.log),
	)

	id, err := s.Open(ctx)
	if err != nil {
		_ = p.Close()
		return nil, nil, err
	}
	a.log.Debugw("connected", "session", s.ID(), "radio", id.String(), "layout", a.opts.layout.Name)

	return s, func() {
		if err := s.Close(); err != nil {
			a.log.Warnw("closing session", "error", err)
		}
		if err := p.Close(); err != nil {
			a.log.Warnw("closing port", "error", err)
		}
	}, nil
}

// transferOptions returns the transfer options and a function that ends the
// progress line.
func (a *app) transferOptions() ([]memory.Option, func()) {
	opts := []memory.Option{memory.WithLogger(a.log)}
	if a.opts.noProgress || a.opts.quiet {
		return opts, func() {}
	}

	bar := newProgressBar(a.stderr)
	if bar == nil {
		return opts, func() {}
	}
	return append(opts, memory.WithProgressCallback(bar.update)), bar.finish
}

func (a *app) csvOptions() []csvtable.Option {
	if a.opts.lenient {
		return []csvtable.Option{csvtable.WithLenient(a.log)}
	}
	return nil
}

func (a *app) readRadio(ctx context.Context) error {
	fmt.Fprintln(a.stdout, "Reading from radio...")

	s, done, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer done()

	mopts, finish := a.transferOptions()
	var img *memory.Image
	if a.opts.dump != "" {
		var blocks []memory.Block
		blocks, err = memory.ReadBlocks(ctx, s, mopts...)
		finish()
		if err != nil {
			return err
		}
		if err := writeDumpFile(a.opts.dump, blocks); err != nil {
			return err
		}
		a.log.Infow("dump saved", "file", a.opts.dump, "blocks", len(blocks))
		img, err = memory.FromBlocks(blocks, a.opts.layout)
	} else {
		img, err = memory.Download(ctx, s, mopts...)
		finish()
	}

	var partial *memory.PartialReadError
	if err != nil && !errors.As(err, &partial) {
		return err
	}

	if err := a.saveTable(img); err != nil {
		return err
	}
	if partial != nil {
		color.New(color.FgHiYellow).Fprintf(a.stdout, "%d channels could not be decoded and were saved as empty\n", partial.Failed)
		return err
	}
	return nil
}

func (a *app) writeRadio(ctx context.Context) error {
	records, err := csvtable.Parse(a.opts.file, a.csvOptions()...)
	if err != nil {
		return err
	}
	img, err := memory.FromRecords(a.opts.layout, records)
	if err != nil {
		return err
	}
	if _, err := memory.ToBlocks(img); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Writing %d channels to radio...\n", img.Len())

	s, done, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer done()

	mopts, finish := a.transferOptions()
	err = memory.Upload(ctx, s, img, mopts...)
	finish()

	var partial *memory.PartialWriteError
	if errors.As(err, &partial) {
		color.New(color.FgHiRed).Fprintf(a.stdout,
			"Radio memory is partially updated: %d of %d blocks written\n", partial.Written, a.opts.layout.Blocks())
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, "Done.")
	return nil
}

func (a *app) checkData() error {
	fmt.Fprintf(a.stdout, "Checking data in file: %s\n", a.opts.file)

	report, err := csvtable.CheckFile(a.opts.file, a.csvOptions()...)
	if err != nil {
		return err
	}

	red := color.New(color.FgHiRed)
	for _, p := range report.Problems {
		red.Fprintf(a.stdout, "  - %v\n", p.Err)
	}

	valid, invalid := report.Valid, report.Invalid
	if report.OK() {
		records, err := csvtable.Parse(a.opts.file, a.csvOptions()...)
		if err != nil {
			return err
		}
		if _, err := memory.FromRecords(a.opts.layout, records); err != nil {
			red.Fprintf(a.stdout, "  - %v\n", err)
			valid--
			invalid++
		}
	}

	fmt.Fprintln(a.stdout, "\n----- Validation Summary -----")
	fmt.Fprintf(a.stdout, "Total records processed: %d\n", valid+invalid)
	fmt.Fprintf(a.stdout, "Valid records: %d\n", valid)
	fmt.Fprintf(a.stdout, "Invalid records: %d\n", invalid)

	if invalid == 0 {
		color.New(color.FgHiGreen).Fprintln(a.stdout, "\nData looks good!")
		return nil
	}
	red.Fprintln(a.stdout, "\nData has issues and may not be processable.")
	return fmt.Errorf("%d invalid records in %s", invalid, a.opts.file)
}

func (a *app) convert() error {
	f, err := os.Open(a.opts.dump)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	blocks, err := memory.ReadDump(f, a.opts.layout)
	if err != nil {
		return err
	}

	img, err := memory.FromBlocks(blocks, a.opts.layout)
	var partial *memory.PartialReadError
	if err != nil && !errors.As(err, &partial) {
		return err
	}
	if serr := a.saveTable(img); serr != nil {
		return serr
	}
	return err
}

func (a *app) saveTable(img *memory.Image) error {
	if err := csvtable.WriteFile(a.opts.file, img.Records()); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Saved %d channels (%d programmed) to %s\n", img.Capacity(), img.Len(), a.opts.file)
	return nil
}

func writeDumpFile(path string, blocks []memory.Block) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := memory.WriteDump(f, blocks); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
