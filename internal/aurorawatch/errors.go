package aurorawatch

import (
	"errors"
	"fmt"
)

// Kind classifies a fetch failure.
type Kind int

const (
	KindNone Kind = iota
	KindRequest
	KindConnect
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request_error"
	case KindConnect:
		return "connect_error"
	case KindDecode:
		return "decode_error"
	default:
		return "ok"
	}
}

// RequestError is any transport failure that happened after (or without) a
// connection being established, plus non-2xx responses.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return fmt.Sprintf("request failed: %v", e.Err) }
func (e *RequestError) Unwrap() error { return e.Err }

// ConnectError means the host could not be reached. The cause is kept for
// errors.Is/As but is not part of the message.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string { return "connect failed" }
func (e *ConnectError) Unwrap() error { return e.Err }

// DecodeError means the response body did not match the requested schema.
type DecodeError struct {
	Schema Schema
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s failed: %v", e.Schema, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// KindOf reports which failure class err belongs to.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var (
		connErr *ConnectError
		decErr  *DecodeError
	)
	switch {
	case errors.As(err, &connErr):
		return KindConnect
	case errors.As(err, &decErr):
		return KindDecode
	default:
		return KindRequest
	}
}
