package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestWrapRedis(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"missing key", redis.Nil, http.StatusNotFound, RedisNotFoundMessage},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, RedisTimeoutMessage},
		{"other", errors.New("connection refused"), http.StatusBadGateway, RedisErrorMessage},
		{"already classified", ErrSessionNotFound, http.StatusNotFound, SessionNotFoundMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapRedis(tt.err)
			assert.Equal(t, tt.status, StatusOf(err))
			assert.Equal(t, tt.message, MessageOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.NoError(t, WrapRedis(nil))
}

func TestStatusAndMessageOfPlainError(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	assert.Equal(t, SystemErrorMessage, MessageOf(err))
	assert.False(t, IsUnavailable(err))
}

func TestWrapExternalServices(t *testing.T) {
	cause := errors.New("quota exceeded")

	llm := WrapLLM(cause)
	assert.True(t, IsUnavailable(llm))
	assert.ErrorIs(t, llm, cause)
	assert.Contains(t, llm.Error(), "completion: quota exceeded")

	ret := WrapRetriever(cause)
	assert.True(t, IsUnavailable(ret))
	assert.Equal(t, ServiceUnavailableMessage, MessageOf(ret))

	assert.NoError(t, WrapLLM(nil))
	assert.NoError(t, WrapRetriever(nil))
}

func TestSessionNotFoundMatchesWrapped(t *testing.T) {
	err := fmt.Errorf("load session: %w", ErrSessionNotFound)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
}
