package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookeasy/internal/config"
	"bookeasy/internal/domain/session"
)

func TestNewBroker(t *testing.T) {
	b, err := newBroker(&config.Config{}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &session.MemoryBroker{}, b)
	require.NoError(t, b.Close())

	b, err = newBroker(&config.Config{RedisURL: "redis://localhost:6379/0"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &session.RedisBroker{}, b)
	require.NoError(t, b.Close())
}
