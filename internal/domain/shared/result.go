package shared

import "errors"

// ResultCode is the three-state discriminant returned by save endpoints.
type ResultCode int

const (
	ResultSuccess ResultCode = 1
	ResultFailure ResultCode = -1
	ResultLocked  ResultCode = -2
)

// DefaultFailureMessage is used when a failure carries no usable message.
const DefaultFailureMessage = "Something went wrong, please try again"

// Result is the {result, message, data} envelope used by settings forms and
// row CRUD operations.
type Result[T any] struct {
	Code    ResultCode `json:"result"`
	Message string     `json:"message"`
	Data    T          `json:"data"`
}

// OK reports whether the result is a success.
func (r Result[T]) OK() bool {
	return r.Code == ResultSuccess
}

// Locked reports whether the record was locked.
func (r Result[T]) Locked() bool {
	return r.Code == ResultLocked
}

// Succeeded builds a success result.
func Succeeded[T any](data T, message string) Result[T] {
	return Result[T]{Code: ResultSuccess, Message: message, Data: data}
}

// ResultFromError maps err onto the result protocol. A locked record is
// always -2; any other error is -1 with the error's message.
func ResultFromError[T any](data T, err error) Result[T] {
	if err == nil {
		return Succeeded(data, "")
	}
	code := ResultFailure
	if errors.Is(err, ErrRecordLocked) {
		code = ResultLocked
	}
	msg := err.Error()
	var de *DomainError
	if errors.As(err, &de) {
		msg = de.Message
	}
	if msg == "" {
		msg = DefaultFailureMessage
	}
	return Result[T]{Code: code, Message: msg, Data: data}
}
