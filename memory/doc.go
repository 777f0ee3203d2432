// Package memory holds a radio's channel table as an Image and moves it
// over a protocol session.
//
// An image is converted to protocol blocks with ToBlocks and back with
// FromBlocks. Download and Upload drive a whole-table transfer block by
// block, checking for cancellation between blocks and reporting progress:
//
//	s := session.New(p, codec.Reference)
//	if _, err := s.Open(ctx); err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	img, err := memory.Download(ctx, s, memory.WithProgressCallback(show))
//
// Uploads always write the whole table. Every record is encoded before the
// first block is sent; a failure part way through returns
// *PartialWriteError so callers know the radio holds mixed contents.
//
// WriteDump and ReadDump store the raw blocks as a binary file, byte for
// byte as they sit in radio memory.
package memory
