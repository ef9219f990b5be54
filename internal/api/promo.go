package api

import (
	"context"

	"github.com/vxhub/vxhub-cli/internal/validation"
)

// Use redeems a promo code for this device. The code is validated locally
// before any request is issued.
func (s PromoService) Use(ctx context.Context, code string) (*PromoCodeResult, error) {
	if err := validation.ValidatePromoCode(code); err != nil {
		return nil, err
	}

	result, err := call[PromoCodeResult](ctx, s.Client, UsePromoCode(code))
	if err != nil {
		return nil, err
	}
	if result.Premium {
		s.Session.SetPremium(true)
	}
	return result, nil
}
