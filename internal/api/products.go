package api

import "context"

// List retrieves the purchasable products configured for this app.
func (s ProductsService) List(ctx context.Context) (*ProductList, error) {
	return call[ProductList](ctx, s.Client, GetProducts())
}
