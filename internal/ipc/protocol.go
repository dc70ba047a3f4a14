package ipc

import (
	"errors"
	"fmt"
)

// Response statuses.
const (
	StatusOK             = "ok"
	StatusError          = "error"
	StatusNotImplemented = "not_implemented"
)

// CodeInvalidRequest is returned when a request cannot be decoded.
const CodeInvalidRequest = "INVALID_REQUEST"

// ErrNotImplemented is returned by Response.Err for not_implemented replies.
var ErrNotImplemented = errors.New("method not implemented")

// Request is a method call addressed to a channel.
type Request struct {
	ID      string                 `json:"id,omitempty"`      // correlation id, assigned by the client
	Channel string                 `json:"channel,omitempty"` // empty means the server's default channel
	Method  string                 `json:"method"`            // e.g. "setRtfClipboard"
	Args    map[string]interface{} `json:"args,omitempty"`    // named parameters
}

// Response is the reply to a Request.
type Response struct {
	ID      string      `json:"id,omitempty"`
	Status  string      `json:"status"`            // "ok", "error" or "not_implemented"
	Code    string      `json:"code,omitempty"`    // machine-readable error code
	Message string      `json:"message,omitempty"` // human-readable error
	Data    interface{} `json:"data,omitempty"`    // method result, if any
}

// Success builds an ok response. data may be nil.
func Success(data interface{}) *Response {
	return &Response{Status: StatusOK, Data: data}
}

// Error builds an error response with a fixed code and message.
func Error(code, message string) *Response {
	return &Response{Status: StatusError, Code: code, Message: message}
}

// NotImplemented builds the reply for an unknown method or channel.
func NotImplemented() *Response {
	return &Response{Status: StatusNotImplemented}
}

// OK reports whether the call succeeded.
func (r *Response) OK() bool {
	return r.Status == StatusOK
}

// Err converts a non-ok response into an error.
func (r *Response) Err() error {
	switch r.Status {
	case StatusOK:
		return nil
	case StatusNotImplemented:
		return ErrNotImplemented
	default:
		return &ResponseError{Code: r.Code, Message: r.Message}
	}
}

// ResponseError is an error reply from the remote handler.
type ResponseError struct {
	Code    string
	Message string
}

func (e *ResponseError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
