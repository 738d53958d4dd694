package businesssearch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivity(t *testing.T) {
	a := Activity(&Config{Timeout: 10 * time.Minute, AppVersion: "1.2.0"}, 3)

	assert.Equal(t, TaskType, a.TaskType)
	assert.Equal(t, "1.2.0", a.Version)
	assert.Equal(t, "10m0s", a.Timeout)
	assert.Equal(t, 3, a.Retries)
	assert.Contains(t, a.ErrorCodes, "INVALID_SEARCH_INPUT")

	require.NotNil(t, a.InputSchema)
	assert.Equal(t, []interface{}{"location"}, a.InputSchema["required"])
}
