package interview

import (
	"context"
	"sync"
	"testing"
	"time"

	"talentscout/internal/errors"
	"talentscout/internal/prompts"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	reg := NewRegistry(env.engine, nil)

	s := reg.Create(prompts.French)
	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	err = reg.WithSession(s.ID, func(s *Session) error {
		_, err := env.engine.Start(context.Background(), s)
		return err
	})
	require.NoError(t, err)

	snap, err := reg.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, StageInfoGathering, snap.Stage)
	assert.Equal(t, prompts.FieldName, snap.AwaitedField)
	assert.Equal(t, prompts.French, snap.Language)

	_, err = reg.Get("missing")
	assert.Equal(t, errors.ErrCodeSessionNotFound, errors.CodeOf(err))

	assert.True(t, reg.Delete(s.ID))
	assert.False(t, reg.Delete(s.ID))
	assert.Equal(t, 0, reg.Len())
}

func TestRegistrySerialisesTurns(t *testing.T) {
	env := newTestEnv(t)
	reg := NewRegistry(env.engine, nil)
	s := reg.Create(prompts.English)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = reg.WithSession(s.ID, func(s *Session) error {
				s.QuestionIndex++
				return nil
			})
		}()
	}
	wg.Wait()

	snap, err := reg.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, snap.QuestionIndex)
}

func TestRegistryPruneIdle(t *testing.T) {
	env := newTestEnv(t)
	reg := NewRegistry(env.engine, nil)

	stale := reg.Create(prompts.English)
	fresh := reg.Create(prompts.English)
	busy := reg.Create(prompts.English)

	require.NoError(t, reg.WithSession(stale.ID, func(s *Session) error {
		s.UpdatedAt = time.Now().Add(-2 * time.Hour)
		return nil
	}))

	release := make(chan struct{})
	locked := make(chan struct{})
	go func() {
		_ = reg.WithSession(busy.ID, func(s *Session) error {
			s.UpdatedAt = time.Now().Add(-2 * time.Hour)
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	assert.Equal(t, 1, reg.PruneIdle(time.Hour))
	close(release)

	_, err := reg.Get(stale.ID)
	assert.Error(t, err)
	_, err = reg.Get(fresh.ID)
	assert.NoError(t, err)
	_, err = reg.Get(busy.ID)
	assert.NoError(t, err)
}

func TestRegistryRunPrunerStops(t *testing.T) {
	env := newTestEnv(t)
	reg := NewRegistry(env.engine, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.RunPruner(ctx, 10*time.Millisecond, time.Hour) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop")
	}
}
