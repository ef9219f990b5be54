package api

import "context"

// Validate submits a store transaction for server-side validation. The
// session's premium flag tracks the verdict.
func (s PurchaseService) Validate(ctx context.Context, transactionID string) (*PurchaseValidation, error) {
	result, err := call[PurchaseValidation](ctx, s.Client, ValidatePurchase(transactionID))
	if err != nil {
		return nil, err
	}
	s.Session.SetPremium(result.Premium)
	return result, nil
}

// AfterPurchaseCheck runs the post-purchase verification for a transaction
// and product pair.
func (s PurchaseService) AfterPurchaseCheck(ctx context.Context, transactionID, productID string) (*AfterPurchaseResult, error) {
	return call[AfterPurchaseResult](ctx, s.Client, AfterPurchaseCheck(transactionID, productID))
}
