package memory

import (
	"github.com/moffa90/go-radiomem/channel"
	"github.com/moffa90/go-radiomem/codec"
)

// Image is the full channel table of one radio, indexed by channel number.
// Each slot is either absent or holds a programmed record.
//
// An Image is not safe for concurrent use.
type Image struct {
	layout *codec.Layout
	slots  []*channel.Record
}

// New creates an empty image for the given layout.
func New(layout *codec.Layout) *Image {
	if layout == nil {
		panic("layout cannot be nil")
	}
	return &Image{
		layout: layout,
		slots:  make([]*channel.Record, layout.Channels),
	}
}

// FromRecords builds an image from a list of records. Empty records leave
// their slot absent.
//
// Example:
//
//	records, _ := csvtable.Parse("channels.csv")
//	img, err := memory.FromRecords(codec.Reference, records)
func FromRecords(layout *codec.Layout, records []channel.Record) (*Image, error) {
	img := New(layout)
	seen := make(map[int]bool, len(records))

	for _, r := range records {
		if err := img.checkRange(r.Number); err != nil {
			return nil, err
		}
		if seen[r.Number] {
			return nil, &DuplicateChannelError{Channel: r.Number}
		}
		seen[r.Number] = true

		if err := img.Set(r); err != nil {
			return nil, err
		}
	}

	return img, nil
}

// Layout returns the layout the image belongs to.
func (img *Image) Layout() *codec.Layout {
	return img.layout
}

// Capacity returns the number of slots.
func (img *Image) Capacity() int {
	return len(img.slots)
}

// Len returns the number of programmed slots.
func (img *Image) Len() int {
	n := 0
	for _, s := range img.slots {
		if s != nil {
			n++
		}
	}
	return n
}

// Get returns the record in slot n and whether the slot is programmed.
func (img *Image) Get(n int) (channel.Record, bool) {
	if n < 1 || n > len(img.slots) || img.slots[n-1] == nil {
		return channel.Record{}, false
	}
	return *img.slots[n-1], true
}

// Set stores r in slot r.Number. A record with a zero frequency clears the
// slot instead.
func (img *Image) Set(r channel.Record) error {
	if err := img.checkRange(r.Number); err != nil {
		return err
	}
	if r.IsEmpty() {
		img.slots[r.Number-1] = nil
		return nil
	}
	img.slots[r.Number-1] = &r
	return nil
}

// Clear empties slot n.
func (img *Image) Clear(n int) error {
	if err := img.checkRange(n); err != nil {
		return err
	}
	img.slots[n-1] = nil
	return nil
}

// Channels returns the numbers of the programmed slots in ascending order.
func (img *Image) Channels() []int {
	var out []int
	for i, s := range img.slots {
		if s != nil {
			out = append(out, i+1)
		}
	}
	return out
}

// Records returns one record per slot in channel order, absent slots as
// channel.Empty.
func (img *Image) Records() []channel.Record {
	out := make([]channel.Record, len(img.slots))
	for i, s := range img.slots {
		if s == nil {
			out[i] = channel.Empty(i + 1)
			continue
		}
		out[i] = *s
	}
	return out
}

// Equal reports whether both images use the same layout and hold the same
// record in every slot.
func (img *Image) Equal(other *Image) bool {
	if img == nil || other == nil {
		return img == other
	}
	if img.layout.Name != other.layout.Name || len(img.slots) != len(other.slots) {
		return false
	}
	for i := range img.slots {
		a, b := img.slots[i], other.slots[i]
		if (a == nil) != (b == nil) {
			return false
		}
		if a != nil && *a != *b {
			return false
		}
	}
	return true
}

func (img *Image) checkRange(n int) error {
	if n < 1 || n > len(img.slots) {
		return &ChannelRangeError{Channel: n, Capacity: len(img.slots)}
	}
	return nil
}
