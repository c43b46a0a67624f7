package validation

import (
	"context"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/types"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of profiles validated in parallel when the
// caller does not specify a limit
const DefaultConcurrency = 4

// ValidateBatch validates profiles concurrently and returns the reports in
// input order. It stops early and returns ctx.Err() if the context is cancelled.
func (v *Validator) ValidateBatch(ctx context.Context, profiles []*types.ProfileDocument, opts *Options, concurrency int) ([]*types.ValidationReport, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	reports := make([]*types.ValidationReport, len(profiles))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, profile := range profiles {
		i, profile := i, profile
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			// Each goroutine writes only its own slot
			reports[i] = v.ValidateProfile(profile, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}
