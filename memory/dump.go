package memory

import (
	"fmt"
	"io"
	"sort"

	"github.com/moffa90/go-radiomem/codec"
)

// WriteDump writes blocks as a binary dump: the raw block data concatenated
// in address order.
func WriteDump(w io.Writer, blocks []Block) error {
	sorted := append([]Block(nil), blocks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Address < sorted[j].Address })

	for _, b := range sorted {
		if _, err := w.Write(b.Data); err != nil {
			return fmt.Errorf("write dump: %w", err)
		}
	}
	return nil
}

// ReadDump reads a binary dump of the whole channel table and splits it into
// blocks. The dump must be exactly the layout's memory size.
func ReadDump(r io.Reader, layout *codec.Layout) ([]Block, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(layout.MemorySize())+1))
	if err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	if len(data) != layout.MemorySize() {
		return nil, fmt.Errorf("dump for layout %s: %w", layout.Name,
			&codec.LengthMismatchError{Got: len(data), Want: layout.MemorySize()})
	}

	size := layout.BlockSize()
	blocks := make([]Block, layout.Blocks())
	for i := range blocks {
		blocks[i] = Block{Address: layout.BlockAddress(i), Data: data[i*size : (i+1)*size]}
	}
	return blocks, nil
}
