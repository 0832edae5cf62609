// Package binstream decouples where bytes live from how they are read and written.
//
// A Stream is an offset-addressed byte source with a length and an endianness. Backing buffers
// (ByteStream, MutableByteStream, AppendByteStream, GrowingByteStream, ChunkedStream and
// FileStream) implement it over different storage. StreamRef and WritableStreamRef are cheap
// copyable windows over a stream; Reader and Writer are cursors over a window that decode and
// encode typed values sequentially. FixedArray and VarArray bind lazy views over a window without
// materializing their elements.
//
// Every fallible operation returns an error from the pkg/errs taxonomy and never partially
// consumes input: a failed Reader or Writer call leaves the cursor where it was.
//
// Slices returned by read operations alias the backing storage whenever it is contiguous.
// A write that makes a growable stream reallocate invalidates such slices; ChunkedStream never
// moves its chunks.
package binstream
