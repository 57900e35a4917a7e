package httpclient

import (
	"errors"
	"fmt"
	"io"
)

// BodyTooLargeError reports that an upstream response body exceeded
// the configured cap. Embedding responses are small; anything past
// the cap means the wrong endpoint answered.
type BodyTooLargeError struct {
	MaxBytes int64
}

func (e BodyTooLargeError) Error() string {
	return fmt.Sprintf("response body larger than %d bytes", e.MaxBytes)
}

// IsBodyTooLarge reports whether err is a response size violation.
func IsBodyTooLarge(err error) bool {
	var tooLarge BodyTooLargeError
	return errors.As(err, &tooLarge)
}

// ReadBody drains r up to maxBytes and fails with BodyTooLargeError
// when more data is available. A non-positive maxBytes reads
// everything.
func ReadBody(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	limited := &io.LimitedReader{R: r, N: maxBytes + 1}
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, BodyTooLargeError{MaxBytes: maxBytes}
	}
	return data, nil
}
