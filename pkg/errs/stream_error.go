package errs

import "github.com/pkg/errors"

// StreamError is implemented by every error kind a stream operation can return.
type StreamError interface {
	error
	StreamError()
}

type StreamErrorImpl struct{}

func (StreamErrorImpl) StreamError() {}

func IsStreamError(err error) bool {
	var se StreamError
	return errors.As(err, &se)
}

type InvalidOffset struct {
	StreamErrorImpl
	message string
}

func NewInvalidOffset(message string) *InvalidOffset {
	return &InvalidOffset{message: message}
}

func (a InvalidOffset) Error() string {
	return a.message
}

func (a InvalidOffset) Extend(message string) error {
	return NewInvalidOffset(fmtExtend(a, message))
}

func (a InvalidOffset) Is(target error) bool {
	switch target.(type) {
	case InvalidOffset, *InvalidOffset:
		return true
	default:
		return false
	}
}

type StreamTooShort struct {
	StreamErrorImpl
	message string
}

func NewStreamTooShort(message string) *StreamTooShort {
	return &StreamTooShort{message: message}
}

func (a StreamTooShort) Error() string {
	return a.message
}

func (a StreamTooShort) Extend(message string) error {
	return NewStreamTooShort(fmtExtend(a, message))
}

func (a StreamTooShort) Is(target error) bool {
	switch target.(type) {
	case StreamTooShort, *StreamTooShort:
		return true
	default:
		return false
	}
}

// InvalidArraySize reports an element count whose byte size does not fit 32 bits.
type InvalidArraySize struct {
	StreamErrorImpl
	message string
}

func NewInvalidArraySize(message string) *InvalidArraySize {
	return &InvalidArraySize{message: message}
}

func (a InvalidArraySize) Error() string {
	return a.message
}

func (a InvalidArraySize) Extend(message string) error {
	return NewInvalidArraySize(fmtExtend(a, message))
}

func (a InvalidArraySize) Is(target error) bool {
	switch target.(type) {
	case InvalidArraySize, *InvalidArraySize:
		return true
	default:
		return false
	}
}

// FilesystemError wraps a failure of durable backing storage.
type FilesystemError struct {
	StreamErrorImpl
	message string
	cause   error
}

func NewFilesystemError(cause error, message string) *FilesystemError {
	return &FilesystemError{message: message, cause: cause}
}

func (a FilesystemError) Error() string {
	if a.cause == nil {
		return a.message
	}
	return fmtExtend(a.cause, a.message)
}

func (a FilesystemError) Unwrap() error {
	return a.cause
}

func (a FilesystemError) Extend(message string) error {
	return NewFilesystemError(a.cause, message+": "+a.message)
}

func (a FilesystemError) Is(target error) bool {
	switch target.(type) {
	case FilesystemError, *FilesystemError:
		return true
	default:
		return false
	}
}

type Unspecified struct {
	StreamErrorImpl
	message string
}

func NewUnspecified(message string) *Unspecified {
	return &Unspecified{message: message}
}

func (a Unspecified) Error() string {
	return a.message
}

func (a Unspecified) Extend(message string) error {
	return NewUnspecified(fmtExtend(a, message))
}

func (a Unspecified) Is(target error) bool {
	switch target.(type) {
	case Unspecified, *Unspecified:
		return true
	default:
		return false
	}
}
