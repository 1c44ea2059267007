package executor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBackoff(t *testing.T) {
	assert.Equal(t, baseDelay, calculateBackoff(-1))
	assert.Equal(t, 1*time.Second, calculateBackoff(0))
	assert.Equal(t, 2*time.Second, calculateBackoff(1))
	assert.Equal(t, 4*time.Second, calculateBackoff(2))
	assert.Equal(t, 32*time.Second, calculateBackoff(5))
	assert.Equal(t, maxDelay, calculateBackoff(6))
	assert.Equal(t, maxDelay, calculateBackoff(31))
	assert.Equal(t, maxDelay, calculateBackoff(1000))
}
