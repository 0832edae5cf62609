package bytetree

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/ccoveille/go-safecast"

	"github.com/wavesplatform/binstream/pkg/binstream"
)

// UserInfoKey names an entry of UserInfo.
type UserInfoKey string

// UserInfo is an opaque dictionary passed through every encoding call. Types use it to decide
// which optional fields they emit without changing their method signatures.
type UserInfo map[UserInfoKey]any

// Bool reports whether key holds the boolean true.
func (u UserInfo) Bool(key UserInfoKey) bool {
	b, ok := u[key].(bool)
	return ok && b
}

// Object is encoded as a header word carrying its field count followed by its fields.
// FieldCount and WriteFields must agree for the same UserInfo.
type Object interface {
	FieldCount(info UserInfo) uint32
	WriteFields(w *ObjectWriter, info UserInfo)
}

// Scalar is encoded as a length word followed by exactly ScalarSize raw bytes.
type Scalar interface {
	ScalarSize() uint32
	WriteScalar(w *binstream.Writer) error
}

// Wrapper is encoded as the value it wraps. The wrapped value must not be a Wrapper itself.
type Wrapper interface {
	Wrapped(info UserInfo) any
}

type strategy int

const (
	strategyUnsupported strategy = iota
	strategyObject
	strategyScalar
	strategyDirect
	strategyWrapper
)

func (s strategy) String() string {
	switch s {
	case strategyObject:
		return "object"
	case strategyScalar:
		return "scalar"
	case strategyDirect:
		return "direct"
	case strategyWrapper:
		return "wrapper"
	default:
		return "unsupported"
	}
}

// strategyOf picks the encoding of value. Interfaces take precedence over built-in kinds, so a
// named integer implementing Object is encoded as an object.
func strategyOf(value any) strategy {
	switch value.(type) {
	case Object:
		return strategyObject
	case Scalar:
		return strategyScalar
	case nil:
		return strategyUnsupported
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.String:
		return strategyScalar
	case reflect.Slice:
		if reflect.TypeOf(value).Elem().Kind() == reflect.Uint8 {
			return strategyScalar
		}
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return strategyDirect
	case reflect.Bool:
		return strategyWrapper
	default:
	}
	if _, ok := value.(Wrapper); ok {
		return strategyWrapper
	}
	return strategyUnsupported
}

// builtinScalar adapts strings and byte slices, including named types of those kinds.
type builtinScalar []byte

func (b builtinScalar) ScalarSize() uint32 {
	n, err := safecast.ToUint32(len(b))
	if err != nil {
		return math.MaxUint32
	}
	return n
}

func (b builtinScalar) WriteScalar(w *binstream.Writer) error {
	return w.WriteBytes(b)
}

func asScalar(value any) Scalar {
	if s, ok := value.(Scalar); ok {
		return s
	}
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.String {
		return builtinScalar(v.String())
	}
	return builtinScalar(v.Bytes())
}

// directBytes returns the in-memory representation of an unsigned integer in host byte order.
func directBytes(value any) []byte {
	v := reflect.ValueOf(value)
	switch v.Type().Size() {
	case 1:
		return []byte{byte(v.Uint())}
	case 2:
		return binary.NativeEndian.AppendUint16(nil, uint16(v.Uint()))
	case 4:
		return binary.NativeEndian.AppendUint32(nil, uint32(v.Uint()))
	default:
		return binary.NativeEndian.AppendUint64(nil, v.Uint())
	}
}

func unwrap(value any, info UserInfo) any {
	if b, ok := value.(bool); ok {
		if b {
			return uint8(1)
		}
		return uint8(0)
	}
	if v := reflect.ValueOf(value); v.Kind() == reflect.Bool {
		if _, ok := value.(Wrapper); !ok {
			return unwrap(v.Bool(), info)
		}
	}
	return value.(Wrapper).Wrapped(info)
}
