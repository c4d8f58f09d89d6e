package redis

import (
	"caseLibrary/pkg/config"
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	client, err := Connect(context.Background(), config.RedisConfig{
		RedisHost:   host,
		RedisPort:   port,
		DialTimeout: time.Second,
	})
	require.NoError(t, err)
	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	assert.NoError(t, Close(client))
}

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(context.Background(), config.RedisConfig{DialTimeout: time.Second})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	mr.Close()

	_, err = Connect(context.Background(), config.RedisConfig{
		RedisHost:   host,
		RedisPort:   port,
		DialTimeout: 200 * time.Millisecond,
	})
	assert.Error(t, err)
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
