package analysis

import (
	"fmt"
	"strings"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

// ValidateAnalysis rejects non-food results and structurally broken ones.
func ValidateAnalysis(a domain.Analysis) error {
	if !a.Valid {
		msg := strings.TrimSpace(a.ErrorMessage)
		if msg == "" {
			msg = "image does not contain recognizable food"
		}
		return fmt.Errorf("%w: %s", ErrNotFood, msg)
	}
	if strings.TrimSpace(a.Food) == "" {
		return fmt.Errorf("%w: missing food name", ErrBadResponse)
	}
	if a.Calories.Total < 0 {
		return fmt.Errorf("%w: negative calories", ErrBadResponse)
	}
	if a.Cost.HomeCost < 0 || a.Cost.RestaurantCost < 0 {
		return fmt.Errorf("%w: negative cost estimate", ErrBadResponse)
	}
	return nil
}
