package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookeasy/internal/config"
	"bookeasy/internal/database"
	"bookeasy/internal/domain/listing"
	"bookeasy/internal/domain/reservation"
)

func TestSeed_Rerunnable(t *testing.T) {
	cfg := &config.Config{DatabaseURL: filepath.Join(t.TempDir(), "seed.db")}
	ctx := context.Background()

	require.NoError(t, seed(ctx, cfg, zerolog.Nop()))
	require.NoError(t, seed(ctx, cfg, zerolog.Nop()), "second run starts from a clean slate")

	db, err := database.Connect(cfg.DatabaseURL)
	require.NoError(t, err)

	var listings, reservations, confirmed int64
	require.NoError(t, db.Model(&listing.Listing{}).Count(&listings).Error)
	require.NoError(t, db.Model(&reservation.Reservation{}).Count(&reservations).Error)
	require.NoError(t, db.Model(&reservation.Reservation{}).Where("status = ?", reservation.StatusConfirmed).Count(&confirmed).Error)
	assert.EqualValues(t, 4, listings)
	assert.EqualValues(t, 3, reservations)
	assert.EqualValues(t, 1, confirmed)
}
