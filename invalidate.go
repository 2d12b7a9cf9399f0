package main

import "context"

// Invalidate posts one invalidation covering every path. Nothing is sent when
// paths is empty.
func Invalidate(ctx context.Context, cdn CDNInvalidator, distributionID string, paths []string) error {
	if len(paths) == 0 {
		sugar.Debugf("no updated paths, skipping invalidation of %s", distributionID)
		return nil
	}
	sugar.Debugf("invalidating %v on %s", paths, distributionID)
	return cdn.Invalidate(ctx, distributionID, paths)
}
