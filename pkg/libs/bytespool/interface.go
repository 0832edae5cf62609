package bytespool

// Pool hands out byte chunks of a single fixed length.
type Pool interface {
	Get() []byte
	Put([]byte)
	BytesLen() int
}
