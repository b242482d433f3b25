package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"leadtime/shared/failure"
)

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "bad request", err: failure.BadRequestFromString("nope"), want: http.StatusBadRequest},
		{name: "unauthorized", err: failure.Unauthorized("invalid or expired cancel token"), want: http.StatusUnauthorized},
		{name: "not found", err: failure.NotFound("reservation"), want: http.StatusNotFound},
		{name: "conflict", err: failure.Conflict("slot has already been booked"), want: http.StatusConflict},
		{name: "unprocessable", err: failure.UnprocessableEntity("slot is not offered"), want: http.StatusUnprocessableEntity},
		{name: "too many requests", err: failure.TooManyRequests("slow down", 30), want: http.StatusTooManyRequests},
		{name: "wrapped failure", err: fmt.Errorf("submit: %w", failure.Conflict("taken")), want: http.StatusConflict},
		{name: "plain error defaults to internal", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failure.GetCode(tt.err))
		})
	}
}

func TestGetRetryAfter(t *testing.T) {
	assert.Equal(t, int64(42), failure.GetRetryAfter(failure.TooManyRequests("slow down", 42)))
	assert.Equal(t, int64(42), failure.GetRetryAfter(fmt.Errorf("guard: %w", failure.TooManyRequests("slow down", 42))))
	assert.Equal(t, int64(0), failure.GetRetryAfter(failure.Conflict("taken")))
	assert.Equal(t, int64(0), failure.GetRetryAfter(errors.New("boom")))
}

func TestGetFields(t *testing.T) {
	fields := map[string]string{"email": "email is invalid"}

	assert.Equal(t, fields, failure.GetFields(failure.BadRequestWithFields("validation failed", fields)))
	assert.Nil(t, failure.GetFields(failure.BadRequestFromString("nope")))
	assert.Nil(t, failure.GetFields(errors.New("boom")))
}
