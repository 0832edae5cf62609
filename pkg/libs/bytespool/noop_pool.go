package bytespool

// NoOpBytesPool allocates a fresh chunk on every Get and drops everything it is given back.
type NoOpBytesPool struct {
	bytesLen int
}

func NewNoOpBytesPool(bytesLength int) *NoOpBytesPool {
	if bytesLength < 1 {
		panic("bytesLen should be positive")
	}
	return &NoOpBytesPool{bytesLen: bytesLength}
}

func (a *NoOpBytesPool) Get() []byte {
	return make([]byte, a.bytesLen)
}

func (a *NoOpBytesPool) Put([]byte) {}

func (a *NoOpBytesPool) BytesLen() int {
	return a.bytesLen
}
