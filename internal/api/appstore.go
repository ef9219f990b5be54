package api

import (
	"context"
	"fmt"

	"github.com/vxhub/vxhub-cli/internal/validation"
)

// Lookup queries the public store listing for a bundle identifier. This is
// the one endpoint that leaves the hub: no identity headers are attached.
func (s AppStoreService) Lookup(ctx context.Context, bundleID string) (*AppStoreLookup, error) {
	if err := validation.ValidateBundleID(bundleID); err != nil {
		return nil, err
	}
	return call[AppStoreLookup](ctx, s.Client, GetAppStoreVersion(bundleID))
}

// LiveVersion returns the currently published store version for a bundle.
func (s AppStoreService) LiveVersion(ctx context.Context, bundleID string) (string, error) {
	lookup, err := s.Lookup(ctx, bundleID)
	if err != nil {
		return "", err
	}
	if lookup.ResultCount == 0 || len(lookup.Results) == 0 {
		return "", fmt.Errorf("no store listing found for %q", bundleID)
	}
	return lookup.Results[0].Version, nil
}
