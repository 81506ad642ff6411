package social

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

const (
	usersCollection  = "users"
	defaultWaterGoal = 8
)

// ErrUserNotFound is returned when no account matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ChallengeStatus is the outcome of a partner's daily water challenge.
type ChallengeStatus string

const (
	// StatusSuccess means the partner met their water goal yesterday.
	StatusSuccess ChallengeStatus = "success"
	// StatusFail means the partner fell short of their water goal.
	StatusFail ChallengeStatus = "fail"
)

// PartnerInfo is the public slice of a user shared with their partner.
type PartnerInfo struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Service links accountability partners and evaluates their progress.
type Service struct {
	client *firestore.Client
}

func New(client *firestore.Client) *Service {
	return &Service{client: client}
}

// FindByEmail looks a user up by the email stored in their profile.
func (s *Service) FindByEmail(ctx context.Context, email string) (PartnerInfo, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return PartnerInfo{}, ErrUserNotFound
	}

	iter := s.client.Collection(usersCollection).
		Where("profile.email", "==", email).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return PartnerInfo{}, ErrUserNotFound
	}
	if err != nil {
		return PartnerInfo{}, fmt.Errorf("query user by email: %w", err)
	}

	var data domain.UserData
	if err := doc.DataTo(&data); err != nil {
		return PartnerInfo{}, fmt.Errorf("decode user %s: %w", doc.Ref.ID, err)
	}

	return PartnerInfo{
		UserID: doc.Ref.ID,
		Name:   data.Profile.Name,
		Email:  data.Profile.Email,
	}, nil
}

// Link records partner on userID's profile. Linking is one-way so a
// sponsor can watch over someone without being watched back.
func (s *Service) Link(ctx context.Context, userID string, partner PartnerInfo) error {
	_, err := s.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{
			Path: "profile.social",
			Value: domain.SocialProfile{
				PartnerID:    partner.UserID,
				PartnerName:  partner.Name,
				PartnerEmail: partner.Email,
			},
		},
	})
	if status.Code(err) == codes.NotFound {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("link partner: %w", err)
	}
	return nil
}

// PartnerStatus reports whether the partner met yesterday's water goal.
func (s *Service) PartnerStatus(ctx context.Context, partnerID string, now time.Time) (ChallengeStatus, error) {
	doc, err := s.client.Collection(usersCollection).Doc(partnerID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get partner %s: %w", partnerID, err)
	}

	var data domain.UserData
	if err := doc.DataTo(&data); err != nil {
		return "", fmt.Errorf("decode partner %s: %w", partnerID, err)
	}

	return EvaluateWaterChallenge(data, now), nil
}

// EvaluateWaterChallenge compares yesterday's logged water against the
// partner's daily goal. A log from any other day counts as zero.
func EvaluateWaterChallenge(data domain.UserData, now time.Time) ChallengeStatus {
	yesterday := domain.DateString(now.AddDate(0, 0, -1))

	goal := data.Profile.WaterGlasses
	if goal <= 0 {
		goal = defaultWaterGoal
	}

	drank := 0
	if data.WaterLog.Date == yesterday {
		drank = data.WaterLog.Count
	}

	if drank < goal {
		return StatusFail
	}
	return StatusSuccess
}
