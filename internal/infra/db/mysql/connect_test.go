package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPool_WithDefaults(t *testing.T) {
	assert.Equal(t, DefaultPool, Pool{}.withDefaults())

	p := Pool{MaxOpenConns: 5, ConnMaxLifetime: time.Minute}.withDefaults()
	assert.Equal(t, Pool{MaxOpenConns: 5, MaxIdleConns: 10, ConnMaxLifetime: time.Minute}, p)
}
