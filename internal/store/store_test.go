package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", filepath.Join(t.TempDir(), "database.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	require.ErrorIs(t, err, ErrUnknownDriver)
}

func TestInsertAndLoadPoints(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.EnsurePointsTable(ctx, "Felipe"))
	// Idempotent.
	require.NoError(t, s.EnsurePointsTable(ctx, "Felipe"))

	pts := []Point{
		{Latitude: -22.817092, Longitude: -47.09243, AppMask: 1},
		{Latitude: -22.8171, Longitude: -47.0925, AppMask: 1},
		{Latitude: -22.8172, Longitude: -47.0926, AppMask: 1},
	}
	require.NoError(t, s.InsertPoints(ctx, "Felipe", pts[:2], 1))
	require.NoError(t, s.InsertPoints(ctx, "Felipe", pts[2:], 0))
	require.NoError(t, s.InsertPoints(ctx, "Felipe", nil, 10))

	got, err := s.LoadPoints(ctx, "Felipe")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range pts {
		require.Equal(t, pts[i].Latitude, got[i].Latitude)
		require.Equal(t, pts[i].Longitude, got[i].Longitude)
		require.Equal(t, 1, got[i].AppMask)
		if i > 0 {
			require.Greater(t, got[i].ID, got[i-1].ID)
		}
	}
}

func TestEnsurePointsTable_EmptyName(t *testing.T) {
	require.Error(t, openTestStore(t).EnsurePointsTable(context.Background(), ""))
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	none, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Empty(t, none)

	first, existed, err := s.OpenSession(ctx, "morning", "Points")
	require.NoError(t, err)
	require.False(t, existed)
	require.NotZero(t, first.ID)
	require.Len(t, first.RunID, 36)

	again, existed, err := s.OpenSession(ctx, "morning", "Points")
	require.NoError(t, err)
	require.True(t, existed)
	require.Equal(t, first.ID, again.ID)
	require.Equal(t, first.RunID, again.RunID)

	_, _, err = s.OpenSession(ctx, "evening", "Evening")
	require.NoError(t, err)

	require.NoError(t, s.AddSamples(ctx, first.ID, 10))
	require.NoError(t, s.AddSamples(ctx, first.ID, 5))

	all, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "morning", all[0].Name)
	require.Equal(t, 15, all[0].Samples)
	require.Equal(t, "evening", all[1].Name)
	require.Equal(t, "Evening", all[1].PointsTable)
	require.False(t, all[1].CreatedAt.IsZero())
}

func TestOpenSession_EmptyName(t *testing.T) {
	_, _, err := openTestStore(t).OpenSession(context.Background(), "", "Points")
	require.Error(t, err)
}
