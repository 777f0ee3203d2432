package memory

import (
	"fmt"
	"sort"

	"github.com/moffa90/go-radiomem/channel"
	"github.com/moffa90/go-radiomem/codec"
)

// Block is one protocol block: BlockSize bytes at an aligned address,
// holding RecordsPerBlock whole records.
type Block struct {
	Address uint32
	Data    []byte
}

// FromBlocks decodes blocks into an image. Blocks may come in any order and
// need not cover the whole table; uncovered slots stay absent.
//
// Records that fail to decode leave their slot absent and produce a
// *PartialReadError, returned together with the image of every record that
// did decode.
func FromBlocks(blocks []Block, layout *codec.Layout) (*Image, error) {
	c, err := codec.New(layout)
	if err != nil {
		return nil, err
	}

	sorted := append([]Block(nil), blocks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Address < sorted[j].Address })

	img := New(layout)
	var partial *PartialReadError

	for i, b := range sorted {
		idx, ok := layout.BlockIndex(b.Address)
		if !ok {
			return nil, fmt.Errorf("block address 0x%04X is not a %s block address", b.Address, layout.Name)
		}
		if i > 0 && sorted[i-1].Address == b.Address {
			return nil, fmt.Errorf("block 0x%04X appears more than once", b.Address)
		}
		if len(b.Data) != layout.BlockSize() {
			return nil, fmt.Errorf("block 0x%04X: %w", b.Address,
				&codec.LengthMismatchError{Got: len(b.Data), Want: layout.BlockSize()})
		}

		first := layout.FirstChannel(idx)
		for k := 0; k < layout.RecordsPerBlock; k++ {
			off := k * layout.RecordSize
			rec, err := c.Decode(first+k, b.Data[off:off+layout.RecordSize])
			if err != nil {
				if partial == nil {
					partial = &PartialReadError{
						Image:               img,
						FirstFailureAddress: b.Address + uint32(off),
						Err:                 err,
					}
				}
				partial.Failed++
				continue
			}
			if err := img.Set(rec); err != nil {
				return nil, err
			}
		}
	}

	if partial != nil {
		partial.Succeeded = len(sorted)*layout.RecordsPerBlock - partial.Failed
		return img, partial
	}
	return img, nil
}

// ToBlocks encodes every block of the image's layout, in address order.
// Absent slots are written as empty records, so the result always covers
// the whole channel table.
func ToBlocks(img *Image) ([]Block, error) {
	layout := img.Layout()
	c, err := codec.New(layout)
	if err != nil {
		return nil, err
	}

	blocks := make([]Block, layout.Blocks())
	for i := range blocks {
		data := make([]byte, 0, layout.BlockSize())
		first := layout.FirstChannel(i)
		for k := 0; k < layout.RecordsPerBlock; k++ {
			n := first + k
			rec, ok := img.Get(n)
			if !ok {
				rec = channel.Empty(n)
			}
			b, err := c.Encode(rec)
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", n, err)
			}
			data = append(data, b...)
		}
		blocks[i] = Block{Address: layout.BlockAddress(i), Data: data}
	}

	return blocks, nil
}
