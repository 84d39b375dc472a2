package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yu47362/sc2002InternshipApplication/internal/models"
)

func studentActor(id, name string) models.Actor {
	return models.Actor{
		Role:    models.RoleStudent,
		Student: &models.Student{ID: id, Name: name, Year: 3, Major: "Computer Science"},
	}
}

func newTestRegistry(t *testing.T) (*Registry, *time.Time) {
	t.Helper()
	r := NewRegistry(5*time.Minute, 30*time.Minute, nil)
	clock := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }
	return r, &clock
}

func TestRegistryCreateAndTouch(t *testing.T) {
	r, clock := newTestRegistry(t)

	s := r.Create(studentActor("s1", "Alice"))
	assert.Equal(t, *clock, s.LoginTime)
	assert.Equal(t, 1, r.Count())

	*clock = clock.Add(10 * time.Minute)
	require.True(t, r.Touch("s1"))
	assert.False(t, r.Touch("ghost"))

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, int64(10), snap[0].DurationMinutes)
	assert.Equal(t, int64(0), snap[0].IdleMinutes)
}

func TestRegistryCreateReplacesExisting(t *testing.T) {
	r, clock := newTestRegistry(t)

	r.Create(studentActor("s1", "Alice"))
	filter := models.NewFilter()
	filter.Company = "Acme"
	require.True(t, r.SetFilter("s1", filter))

	*clock = clock.Add(time.Minute)
	r.Create(studentActor("s1", "Alice"))
	assert.Equal(t, 1, r.Count())

	// A fresh login starts from a clean filter.
	got, ok := r.Filter("s1")
	require.True(t, ok)
	assert.False(t, got.HasActiveFilters())
}

func TestRegistryFilterIsCopied(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Create(studentActor("s1", "Alice"))

	filter := models.NewFilter()
	filter.Company = "Acme"
	require.True(t, r.SetFilter("s1", filter))

	got, ok := r.Filter("s1")
	require.True(t, ok)
	got.Company = "Globex"

	again, ok := r.Filter("s1")
	require.True(t, ok)
	assert.Equal(t, "Acme", again.Company)
}

func TestRegistrySweepExpiresIdleSessions(t *testing.T) {
	r, clock := newTestRegistry(t)
	r.Create(studentActor("s1", "Alice"))
	r.Create(studentActor("s2", "Bob"))

	*clock = clock.Add(20 * time.Minute)
	require.True(t, r.Touch("s2"))

	// s1 has idled 31 minutes, s2 only 11.
	*clock = clock.Add(11 * time.Minute)
	r.Sweep()

	assert.Equal(t, 1, r.Count())
	assert.False(t, r.Touch("s1"))
	assert.True(t, r.Touch("s2"))
}

func TestRegistrySweepBoundary(t *testing.T) {
	r, clock := newTestRegistry(t)
	r.Create(studentActor("s1", "Alice"))

	// Exactly at the timeout the session survives; expiry is strict.
	*clock = clock.Add(30 * time.Minute)
	r.Sweep()
	assert.Equal(t, 1, r.Count())

	*clock = clock.Add(time.Nanosecond)
	r.Sweep()
	assert.Zero(t, r.Count())
}

func TestRegistryTouchDefersExpiry(t *testing.T) {
	r, clock := newTestRegistry(t)
	r.Create(studentActor("s1", "Alice"))

	for i := 0; i < 4; i++ {
		*clock = clock.Add(25 * time.Minute)
		require.True(t, r.Touch("s1"))
		r.Sweep()
	}
	assert.Equal(t, 1, r.Count())
}

func TestRegistryShutdown(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.NoError(t, r.Start())
	r.Create(studentActor("s1", "Alice"))
	r.Create(studentActor("s2", "Bob"))

	r.Shutdown()
	assert.Zero(t, r.Count())
	assert.False(t, r.Touch("s1"))

	// Idempotent, and the registry stays down.
	r.Shutdown()
	require.NoError(t, r.Start())
	assert.Zero(t, r.Count())
}
