package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moffa90/go-radiomem/codec"
)

// Session is the part of *session.Session that transfers need.
// The session must be open.
type Session interface {
	Layout() *codec.Layout
	ReadBlock(ctx context.Context, addr uint32) ([]byte, error)
	WriteBlock(ctx context.Context, addr uint32, data []byte) error
}

// ReadBlocks reads every block of the session's channel table in address
// order. Cancellation is checked between blocks.
//
// On failure the blocks read so far are returned together with the error.
func ReadBlocks(ctx context.Context, s Session, opts ...Option) ([]Block, error) {
	cfg := newConfig(opts)
	layout := s.Layout()
	total := layout.Blocks()
	start := time.Now()

	blocks := make([]Block, 0, total)
	for i := 0; i < total; i++ {
		addr := layout.BlockAddress(i)
		if err := ctx.Err(); err != nil {
			cfg.Logger.Warnw("download cancelled", "blocks", i, "total", total)
			return blocks, fmt.Errorf("cancelled: %w", err)
		}

		data, err := s.ReadBlock(ctx, addr)
		if err != nil {
			return blocks, fmt.Errorf("read block 0x%04X: %w", addr, err)
		}
		blocks = append(blocks, Block{Address: addr, Data: data})

		cfg.reportProgress(Progress{
			Phase:            PhaseReading,
			CurrentBlock:     i + 1,
			TotalBlocks:      total,
			Address:          addr,
			Percentage:       float64(i+1) / float64(total) * 100,
			BytesTransferred: (i + 1) * layout.BlockSize(),
			ElapsedTime:      time.Since(start),
		})
	}

	return blocks, nil
}

// Download reads the whole channel table and decodes it.
//
// If the transfer stops early (cancellation or a protocol error) the image
// of exactly the blocks read is returned with the error. Records that fail
// to decode yield a *PartialReadError alongside the image of the rest.
//
// Example:
//
//	s := session.New(p, codec.Reference)
//	if _, err := s.Open(ctx); err != nil { ... }
//	defer s.Close()
//	img, err := memory.Download(ctx, s)
func Download(ctx context.Context, s Session, opts ...Option) (*Image, error) {
	cfg := newConfig(opts)
	start := time.Now()

	blocks, readErr := ReadBlocks(ctx, s, opts...)

	img, decodeErr := FromBlocks(blocks, s.Layout())
	var partial *PartialReadError
	if decodeErr != nil && !errors.As(decodeErr, &partial) {
		return nil, decodeErr
	}
	if partial != nil {
		cfg.Logger.Warnw("undecodable records",
			"failed", partial.Failed,
			"first_address", fmt.Sprintf("0x%04X", partial.FirstFailureAddress),
			"error", partial.Err,
		)
	}

	if readErr != nil {
		return img, readErr
	}
	if decodeErr != nil {
		return img, decodeErr
	}

	cfg.Logger.Infow("download complete",
		"blocks", len(blocks),
		"channels", img.Len(),
		"elapsed", time.Since(start),
	)
	cfg.reportProgress(Progress{
		Phase:            PhaseComplete,
		CurrentBlock:     len(blocks),
		TotalBlocks:      len(blocks),
		Percentage:       100,
		BytesTransferred: len(blocks) * s.Layout().BlockSize(),
		ElapsedTime:      time.Since(start),
	})
	return img, nil
}

// Upload writes the whole image to the radio, every block of the channel
// table, absent slots as empty records.
//
// Every record is encoded before the first block is sent, so invalid data
// never reaches the radio. A failure after at least one block was written
// returns *PartialWriteError.
func Upload(ctx context.Context, s Session, img *Image, opts ...Option) error {
	cfg := newConfig(opts)
	layout := s.Layout()
	if img.Layout().Name != layout.Name {
		return fmt.Errorf("image uses layout %s, radio uses %s", img.Layout().Name, layout.Name)
	}

	blocks, err := ToBlocks(img)
	if err != nil {
		return fmt.Errorf("encode image: %w", err)
	}

	start := time.Now()
	for i, b := range blocks {
		err := ctx.Err()
		if err != nil {
			err = fmt.Errorf("cancelled: %w", err)
		} else if err = s.WriteBlock(ctx, b.Address, b.Data); err != nil {
			err = fmt.Errorf("write block 0x%04X: %w", b.Address, err)
		}
		if err != nil {
			if i == 0 {
				return err
			}
			cfg.Logger.Warnw("upload interrupted", "written", i, "total", len(blocks), "error", err)
			return &PartialWriteError{Written: i, Address: b.Address, Err: err}
		}

		cfg.reportProgress(Progress{
			Phase:            PhaseWriting,
			CurrentBlock:     i + 1,
			TotalBlocks:      len(blocks),
			Address:          b.Address,
			Percentage:       float64(i+1) / float64(len(blocks)) * 100,
			BytesTransferred: (i + 1) * layout.BlockSize(),
			ElapsedTime:      time.Since(start),
		})
	}

	cfg.Logger.Infow("upload complete",
		"blocks", len(blocks),
		"channels", img.Len(),
		"elapsed", time.Since(start),
	)
	cfg.reportProgress(Progress{
		Phase:            PhaseComplete,
		CurrentBlock:     len(blocks),
		TotalBlocks:      len(blocks),
		Percentage:       100,
		BytesTransferred: len(blocks) * layout.BlockSize(),
		ElapsedTime:      time.Since(start),
	})
	return nil
}
