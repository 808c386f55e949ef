package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Format(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "code only", err: &Error{Code: CodeInternal}, want: "INTERNAL"},
		{name: "code and message", err: &Error{Code: CodeNotFound, Message: "tool missing"}, want: "NOT_FOUND: tool missing"},
		{name: "op and code", err: &Error{Code: CodeUnavailable, Op: "lifecycle.Run"}, want: "lifecycle.Run: UNAVAILABLE"},
		{name: "full", err: E(CodeAlreadyExists, "registry.AddTool", "tool \"echo\" already registered", ErrDuplicateCapability), want: "registry.AddTool: ALREADY_EXISTS: tool \"echo\" already registered"},
		{name: "message from cause", err: E(CodeInternal, "op", "", errors.New("boom")), want: "op: INTERNAL: boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}

	var nilErr *Error
	assert.Empty(t, nilErr.Error())
	assert.NoError(t, nilErr.Unwrap())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(CodeInternal, "op", nil))

	cause := errors.New("pipe closed")
	wrapped := Wrap(CodeUnavailable, "lifecycle.Run", cause)
	require.ErrorIs(t, wrapped, cause)
	assert.Equal(t, CodeUnavailable, wrapped.Code)

	inner := E(CodeNotFound, "", "missing", ErrCapabilityNotFound)
	rewrapped := Wrap(CodeInternal, "registry.CallTool", fmt.Errorf("call: %w", inner))
	assert.Equal(t, CodeNotFound, rewrapped.Code)
	assert.Equal(t, "registry.CallTool", rewrapped.Op)
	require.ErrorIs(t, rewrapped, ErrCapabilityNotFound)

	kept := E(CodeNotFound, "first", "missing", nil)
	assert.Same(t, kept, Wrap(CodeInternal, "second", kept))
}

func TestCodeFrom(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorCode
		ok   bool
	}{
		{name: "nil", err: nil},
		{name: "plain", err: errors.New("x")},
		{name: "domain error", err: E(CodeUnavailable, "op", "down", nil), want: CodeUnavailable, ok: true},
		{name: "wrapped domain error", err: fmt.Errorf("ctx: %w", E(CodeFailedPrecond, "op", "", nil)), want: CodeFailedPrecond, ok: true},
		{name: "invalid argument", err: ErrInvalidArgument, want: CodeInvalidArgument, ok: true},
		{name: "resource uri", err: fmt.Errorf("add: %w", ErrInvalidResourceURI), want: CodeInvalidArgument, ok: true},
		{name: "input schema", err: ErrInvalidInputSchema, want: CodeInvalidArgument, ok: true},
		{name: "duplicate", err: ErrDuplicateCapability, want: CodeAlreadyExists, ok: true},
		{name: "not found", err: ErrCapabilityNotFound, want: CodeNotFound, ok: true},
		{name: "sealed", err: ErrRegistrySealed, want: CodeFailedPrecond, ok: true},
		{name: "canceled", err: context.Canceled, want: CodeCanceled, ok: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, ok := CodeFrom(tc.err)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, code)
		})
	}
}
