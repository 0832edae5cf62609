package bytetree

import "github.com/ccoveille/go-safecast"

// List encodes a slice as an object with one field per element.
type List[T any] []T

func (l List[T]) FieldCount(UserInfo) uint32 {
	n, err := safecast.ToUint32(len(l))
	if err != nil {
		panic(&Violation{Path: "list", Msg: err.Error()})
	}
	return n
}

func (l List[T]) WriteFields(w *ObjectWriter, _ UserInfo) {
	for i, item := range l {
		w.Write(uint32(i), item)
	}
}

// Fields is an object built from heterogeneous values, encoded in slice order.
type Fields []any

func (f Fields) FieldCount(info UserInfo) uint32 {
	return List[any](f).FieldCount(info)
}

func (f Fields) WriteFields(w *ObjectWriter, info UserInfo) {
	List[any](f).WriteFields(w, info)
}
