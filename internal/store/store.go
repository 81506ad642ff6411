// Package store provides the durable on-device state layer. Every
// mutation is written here synchronously; the cloud copy trails behind.
package store

import (
	"context"
	"errors"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

// ErrNotFound is returned when a user has no stored state yet.
var ErrNotFound = errors.New("not found")

// Local is the durable per-user state store.
type Local interface {
	// Load returns the full stored state for a user, or ErrNotFound.
	Load(ctx context.Context, userID string) (*domain.UserData, error)
	PutProfile(ctx context.Context, userID string, profile domain.Profile) error
	PutHistory(ctx context.Context, userID string, history []domain.HistoryItem) error
	PutExerciseHistory(ctx context.Context, userID string, history []domain.ExerciseLog) error
	PutWaterLog(ctx context.Context, userID string, log domain.WaterLog) error
	Delete(ctx context.Context, userID string) error
	Close() error
}
