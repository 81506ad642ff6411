package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
	"github.com/ZarakiLancelot/NutriSnap/internal/store"
)

const remoteWriteTimeout = 10 * time.Second

// CloudStore is the remote side of the reconciler. Satisfied by *Remote;
// faked in tests.
type CloudStore interface {
	Save(ctx context.Context, userID string, patch Patch) error
	Get(ctx context.Context, userID string) (*domain.UserData, error)
	Watch(ctx context.Context, userID string, fn func(domain.UserData) error) error
}

/// Service applies the write policy: local synchronously, cloud
// asynchronously with per-user coalescing and no retry. The newest queued
// patch always wins, matching the document's last-write-wins semantics.
type Service struct {
	local  store.Local
	remote CloudStore
	logger *slog.Logger

	loads singleflight.Group

	mu       sync.Mutex
	pending  map[string]*Patch
	inflight map[string]bool

	// now is swapped in tests.
	now func() time.Time
}

// New builds a reconciler. remote may be nil for offline-only operation.
func New(local store.Local, remote CloudStore, logger *slog.Logger) *Service {
	return &Service{
		local:    local,
		remote:   remote,
		logger:   logger,
		pending:  make(map[string]*Patch),
		inflight: make(map[string]bool),
		now:      time.Now,
	}
}

// Load returns the user's state, preferring the local store and seeding it
// from the cloud on first contact from this device. Concurrent first
// contacts for the same user share one cloud read.
func (s *Service) Load(ctx context.Context, userID string) (*domain.UserData, error) {
	data, err := s.local.Load(ctx, userID)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, store.ErrNotFound) || s.remote == nil {
		return nil, err
	}

	v, err, _ := s.loads.Do(userID, func() (any, error) {
		remote, err := s.remote.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.writeThrough(ctx, userID, remote, true)
		return remote, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.UserData), nil
}

// SaveProfile persists the profile locally and queues the cloud write.
func (s *Service) SaveProfile(ctx context.Context, userID string, profile domain.Profile) error {
	if err := s.local.PutProfile(ctx, userID, profile); err != nil {
		return err
	}
	s.queue(userID, Patch{Profile: &profile})
	return nil
}

// SaveHistory persists the food history locally and queues the cloud write.
func (s *Service) SaveHistory(ctx context.Context, userID string, history []domain.HistoryItem) error {
	if err := s.local.PutHistory(ctx, userID, history); err != nil {
		return err
	}
	s.queue(userID, Patch{History: &history})
	return nil
}

// SaveExerciseHistory persists exercise logs locally and queues the cloud write.
func (s *Service) SaveExerciseHistory(ctx context.Context, userID string, history []domain.ExerciseLog) error {
	if err := s.local.PutExerciseHistory(ctx, userID, history); err != nil {
		return err
	}
	s.queue(userID, Patch{ExerciseHistory: &history})
	return nil
}

// SaveWaterLog persists today's water counter locally and queues the cloud write.
func (s *Service) SaveWaterLog(ctx context.Context, userID string, log domain.WaterLog) error {
	if err := s.local.PutWaterLog(ctx, userID, log); err != nil {
		return err
	}
	s.queue(userID, Patch{WaterLog: &log})
	return nil
}

// queue merges the patch into the user's pending cloud write and starts a
// drain goroutine unless one is already running for this user.
func (s *Service) queue(userID string, patch Patch) {
	if s.remote == nil {
		return
	}

	s.mu.Lock()
	if existing, ok := s.pending[userID]; ok {
		existing.merge(patch)
	} else {
		s.pending[userID] = &patch
	}
	if s.inflight[userID] {
		s.mu.Unlock()
		return
	}
	s.inflight[userID] = true
	s.mu.Unlock()

	go s.drain(userID)
}

func (s *Service) drain(userID string) {
	for {
		s.mu.Lock()
		patch, ok := s.pending[userID]
		if !ok {
			s.inflight[userID] = false
			s.mu.Unlock()
			return
		}
		delete(s.pending, userID)
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
		err := s.remote.Save(ctx, userID, *patch)
		cancel()

		if err != nil {
			if IsCapacityErr(err) {
				s.logger.Error("cloud document over capacity, history may be too large",
					slog.String("userId", userID), slog.Any("error", err))
			} else {
				s.logger.Error("cloud save failed, local state remains authoritative",
					slog.String("userId", userID), slog.Any("error", err))
			}
		}
	}
}

// Flush synchronously writes any pending patch for the user. Used on
// logout so the device does not disappear with queued state.
func (s *Service) Flush(ctx context.Context, userID string) error {
	if s.remote == nil {
		return nil
	}
	s.mu.Lock()
	patch, ok := s.pending[userID]
	delete(s.pending, userID)
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.remote.Save(ctx, userID, *patch)
}

// Subscribe follows the cloud document until ctx is cancelled, writing
// every snapshot through to the local store. The water counter is only
// accepted when it belongs to today, so a stale counter from another
// device cannot resurrect yesterday's tally.
func (s *Service) Subscribe(ctx context.Context, userID string) error {
	if s.remote == nil {
		return nil
	}
	return s.remote.Watch(ctx, userID, func(data domain.UserData) error {
		s.writeThrough(ctx, userID, &data, false)
		return nil
	})
}

// writeThrough copies a cloud snapshot into the local store. Slice
// sections replace wholesale; acceptStaleWater relaxes the same-day water
// check for the initial seed.
func (s *Service) writeThrough(ctx context.Context, userID string, data *domain.UserData, acceptStaleWater bool) {
	if err := s.local.PutProfile(ctx, userID, data.Profile); err != nil {
		s.logger.Error("write-through profile failed", slog.String("userId", userID), slog.Any("error", err))
	}
	if data.History != nil {
		if err := s.local.PutHistory(ctx, userID, data.History); err != nil {
			s.logger.Error("write-through history failed", slog.String("userId", userID), slog.Any("error", err))
		}
	}
	if data.ExerciseHistory != nil {
		if err := s.local.PutExerciseHistory(ctx, userID, data.ExerciseHistory); err != nil {
			s.logger.Error("write-through exercise history failed", slog.String("userId", userID), slog.Any("error", err))
		}
	}
	if acceptStaleWater || data.WaterLog.Date == domain.DateString(s.now()) {
		if err := s.local.PutWaterLog(ctx, userID, data.WaterLog); err != nil {
			s.logger.Error("write-through water log failed", slog.String("userId", userID), slog.Any("error", err))
		}
	}
}
