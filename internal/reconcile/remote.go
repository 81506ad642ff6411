// Package reconcile keeps the local store and the cloud user document in
// agreement: local writes are synchronous, cloud writes trail behind and
// coalesce, and inbound cloud snapshots are written through to local.
package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
	"github.com/ZarakiLancelot/NutriSnap/internal/store"
)

const usersCollection = "users"

// DefaultHistoryLimit bounds how many history items the cloud document
// keeps. The local store keeps the full history; the cloud copy only needs
// enough for another device to pick up recent context without blowing the
// 1MB document limit.
const DefaultHistoryLimit = 20

// Patch is a partial cloud write. Nil fields are left untouched so sibling
// sections written by another device are never clobbered.
type Patch struct {
	Profile         *domain.Profile
	History         *[]domain.HistoryItem
	ExerciseHistory *[]domain.ExerciseLog
	WaterLog        *domain.WaterLog
}

func (p *Patch) merge(next Patch) {
	if next.Profile != nil {
		p.Profile = next.Profile
	}
	if next.History != nil {
		p.History = next.History
	}
	if next.ExerciseHistory != nil {
		p.ExerciseHistory = next.ExerciseHistory
	}
	if next.WaterLog != nil {
		p.WaterLog = next.WaterLog
	}
}

// Remote stores user documents in Firestore, one document per user.
type Remote struct {
	client       *firestore.Client
	historyLimit int
}

// NewRemote wraps a Firestore client. historyLimit <= 0 selects the default.
func NewRemote(client *firestore.Client, historyLimit int) *Remote {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Remote{client: client, historyLimit: historyLimit}
}

func (r *Remote) doc(userID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(userID)
}

// Save merge-writes the patch into the user document and stamps
// lastUpdated. History is truncated to the configured limit.
func (r *Remote) Save(ctx context.Context, userID string, patch Patch) error {
	data := map[string]any{
		"lastUpdated": time.Now().UnixMilli(),
	}
	if patch.Profile != nil {
		data["profile"] = *patch.Profile
	}
	if patch.History != nil {
		data["history"] = TruncateHistory(*patch.History, r.historyLimit)
	}
	if patch.ExerciseHistory != nil {
		data["exerciseHistory"] = *patch.ExerciseHistory
	}
	if patch.WaterLog != nil {
		data["waterLog"] = *patch.WaterLog
	}

	if _, err := r.doc(userID).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("saving user document: %w", err)
	}
	return nil
}

// Get fetches the full user document, or store.ErrNotFound.
func (r *Remote) Get(ctx context.Context, userID string) (*domain.UserData, error) {
	doc, err := r.doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("user %s: %w", userID, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var data domain.UserData
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("unmarshal user document: %w", err)
	}
	return &data, nil
}

// Watch streams document snapshots to fn until ctx is cancelled. Snapshots
// for a missing document are skipped.
func (r *Remote) Watch(ctx context.Context, userID string, fn func(domain.UserData) error) error {
	it := r.doc(userID).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if status.Code(err) == codes.Canceled {
			return nil
		}
		if err != nil {
			return fmt.Errorf("snapshot stream: %w", err)
		}
		if !snap.Exists() {
			continue
		}

		var data domain.UserData
		if err := snap.DataTo(&data); err != nil {
			return fmt.Errorf("unmarshal snapshot: %w", err)
		}
		if err := fn(data); err != nil {
			return err
		}
	}
}

// TruncateHistory keeps the most recent limit items. History is prepended
// on write, so the head of the slice is the newest.
func TruncateHistory(history []domain.HistoryItem, limit int) []domain.HistoryItem {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[:limit]
}

// IsCapacityErr reports whether the write failed because the user document
// ran into Firestore size or quota limits.
func IsCapacityErr(err error) bool {
	if err == nil {
		return false
	}
	if status.Code(err) == codes.ResourceExhausted {
		return true
	}
	return strings.Contains(err.Error(), "exceeds the maximum size")
}
