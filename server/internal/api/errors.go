package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Client-facing messages. They are part of the HTTP contract.
const (
	MsgMethodNotAllowed = "Method Not Allowed"
	MsgInvalidJSON      = "Invalid JSON"
	MsgMissingParams    = "Missing one or more required parameters: monthlyRevenue, monthlyTransactions, businessAge"
	MsgInvalidTypes     = "Invalid input types. All parameters must be numbers."
	MsgNegativeInputs   = "All inputs must be non-negative"
	MsgInternal         = "Error calculating credit score"
)

// Sentinel errors for classification with errors.Is.
var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrInvalidJSON      = errors.New("invalid json")
	ErrMissingParams    = errors.New("missing parameters")
	ErrInvalidTypes     = errors.New("invalid input types")
	ErrNegativeInputs   = errors.New("negative inputs")
	ErrInternal         = errors.New("internal error")
)

// RequestError is a failed scoring request. Status below 500 marks a client
// input error; 500 marks an internal failure whose detail stays in Err and
// never reaches the caller.
type RequestError struct {
	Status  int
	Message string
	Kind    error
	Err     error
}

func (e *RequestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%d %s", e.Status, e.Message)
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

// Is reports whether target is the sentinel kind of e.
func (e *RequestError) Is(target error) bool {
	return e != nil && e.Kind == target
}

func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ClientError reports whether e is caused by the request rather than the server.
func (e *RequestError) ClientError() bool {
	return e.Status < http.StatusInternalServerError
}

func methodNotAllowed() *RequestError {
	return &RequestError{Status: http.StatusMethodNotAllowed, Message: MsgMethodNotAllowed, Kind: ErrMethodNotAllowed}
}

func invalidJSON(cause error) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: MsgInvalidJSON, Kind: ErrInvalidJSON, Err: cause}
}

func missingParams(cause error) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: MsgMissingParams, Kind: ErrMissingParams, Err: cause}
}

func invalidTypes(cause error) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: MsgInvalidTypes, Kind: ErrInvalidTypes, Err: cause}
}

func negativeInputs(cause error) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: MsgNegativeInputs, Kind: ErrNegativeInputs, Err: cause}
}

func internal(cause error) *RequestError {
	return &RequestError{Status: http.StatusInternalServerError, Message: MsgInternal, Kind: ErrInternal, Err: cause}
}
