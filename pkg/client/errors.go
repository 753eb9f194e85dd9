package client

import (
	"errors"
	"fmt"
)

// RemoteError is an HTTP error answer from one of the backend services.
type RemoteError struct {
	Service       string
	StatusCode    int
	Code          string
	Message       string
	CorrelationID string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s service rejected request (%d %s): %s", e.Service, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s service rejected request (%d): %s", e.Service, e.StatusCode, e.Message)
}

// TransportError means no response was received; the operation must be
// considered not applied.
type TransportError struct {
	Service string
	Method  string
	Path    string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s service unreachable (%s %s): %v", e.Service, e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func AsRemoteError(err error) (*RemoteError, bool) {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote, true
	}
	return nil, false
}

func IsTransportError(err error) bool {
	var transport *TransportError
	return errors.As(err, &transport)
}

func newRemoteError(service string, resp *Response) *RemoteError {
	var body struct {
		Code          string `json:"code"`
		CorrelationID string `json:"correlationId"`
	}
	_ = resp.DecodeJSON(&body)
	return &RemoteError{
		Service:       service,
		StatusCode:    resp.StatusCode,
		Code:          body.Code,
		Message:       GetErrorMessage(resp),
		CorrelationID: body.CorrelationID,
	}
}
