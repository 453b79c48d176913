package cache

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedis_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	InitRedis(mr.Addr())
	defer Close()

	require.NotNil(t, GetClient())
	assert.NoError(t, GetClient().Ping(t.Context()).Err())
}

func TestInitRedis_UnreachableLeavesNilClient(t *testing.T) {
	// Port 1 is essentially guaranteed to refuse connections
	InitRedis("127.0.0.1:1")
	defer Close()

	assert.Nil(t, GetClient())
}
