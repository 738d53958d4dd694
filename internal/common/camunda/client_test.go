package camunda

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"business-locator/internal/common/errors"
)

func TestBackoff(t *testing.T) {
	rc := &RetryConfig{BaseDelay: time.Second, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, backoff(rc, 0))
	assert.Equal(t, 2*time.Second, backoff(rc, 1))
	assert.Equal(t, 4*time.Second, backoff(rc, 2))
	assert.Equal(t, 5*time.Second, backoff(rc, 3))
	assert.Equal(t, 5*time.Second, backoff(rc, 62))
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(stderrors.New("rpc error: code = Unavailable desc = connection refused")))
	assert.True(t, isRetryableZeebeError(stderrors.New("context deadline exceeded")))
	assert.False(t, isRetryableZeebeError(stderrors.New("permission denied")))
}

func TestMapZeebeError(t *testing.T) {
	err := mapZeebeError(stderrors.New("context deadline exceeded"), "connect")
	assert.Equal(t, errors.ErrorCode("TIMEOUT_ERROR"), errors.Normalize(err).Code)

	err = mapZeebeError(stderrors.New("connection refused"), "connect")
	assert.Equal(t, errors.ErrorCode("EXTERNAL_SERVICE_ERROR"), errors.Normalize(err).Code)
}
