package domain

import (
	"context"
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeAlreadyExists   ErrorCode = "ALREADY_EXISTS"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeFailedPrecond   ErrorCode = "FAILED_PRECONDITION"
	CodeUnavailable     ErrorCode = "UNAVAILABLE"
	CodeInternal        ErrorCode = "INTERNAL"
	CodeCanceled        ErrorCode = "CANCELED"
)

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrDuplicateCapability = errors.New("capability already registered")
	ErrCapabilityNotFound  = errors.New("capability not found")
	ErrRegistrySealed      = errors.New("registry is sealed")
	ErrInvalidResourceURI  = errors.New("invalid resource uri")
	ErrInvalidInputSchema  = errors.New("input schema must be an object schema")
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
	Meta    map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op == "" {
		if msg == "" {
			return string(e.Code)
		}
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func E(code ErrorCode, op, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Op:      op,
		Message: msg,
		Cause:   cause,
	}
}

func Wrap(code ErrorCode, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		if existing.Op != "" || op == "" {
			return existing
		}
		return &Error{
			Code:    existing.Code,
			Op:      op,
			Message: existing.Message,
			Cause:   existing.Cause,
			Meta:    existing.Meta,
		}
	}
	return E(code, op, "", err)
}

func CodeFrom(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code, true
	}
	switch {
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrInvalidResourceURI), errors.Is(err, ErrInvalidInputSchema):
		return CodeInvalidArgument, true
	case errors.Is(err, ErrDuplicateCapability):
		return CodeAlreadyExists, true
	case errors.Is(err, ErrCapabilityNotFound):
		return CodeNotFound, true
	case errors.Is(err, ErrRegistrySealed):
		return CodeFailedPrecond, true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled, true
	default:
		return "", false
	}
}
