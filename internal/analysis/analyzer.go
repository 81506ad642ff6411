// Package analysis is the boundary to the AI provider. It turns food
// photos into structured nutrition analyses and recent-activity digests
// into insight reports, validating every response before it crosses into
// the domain.
package analysis

import (
	"context"
	"errors"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

var (
	// ErrNotFood is returned when the provider judged the image not to be
	// recognizable food. The message carries the provider's explanation.
	ErrNotFood = errors.New("image is not recognizable food")
	// ErrBadResponse is returned when the provider answer does not match
	// the expected shape.
	ErrBadResponse = errors.New("malformed provider response")
)

// ImageInput is one food photo to analyze.
type ImageInput struct {
	Data     []byte
	MIMEType string
}

// Analyzer produces structured results from the AI provider.
type Analyzer interface {
	// AnalyzeFood analyzes a food photo. The profile personalizes caloric
	// and cost estimates; lang selects the response language.
	AnalyzeFood(ctx context.Context, img ImageInput, profile *domain.Profile, lang domain.Language) (domain.Analysis, error)
	// GenerateInsights turns an activity digest into a periodic report.
	GenerateInsights(ctx context.Context, digestPrompt string, currencySymbol string, lang domain.Language) (domain.InsightReport, error)
	Close() error
}
