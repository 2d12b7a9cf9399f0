package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"
)

// ApplyPlan runs the plan's actions against storage with at most concurrency
// operations in flight. Once an action fails or ctx is done no further actions
// are started; operations already running finish, and every failure is
// returned combined. applied[i] reports whether plan.Actions[i] completed.
func ApplyPlan(ctx context.Context, storage SiteStorer, site *Site, plan Plan, concurrency int) (applied []bool, err error) {
	if concurrency < 1 {
		concurrency = 1
	}
	applied = make([]bool, len(plan.Actions))
	sem := semaphore.NewWeighted(int64(concurrency))
	// started operations run to completion even if ctx is cancelled mid-flight
	opCtx := context.WithoutCancel(ctx)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed atomic.Bool
	)
	recordErr := func(e error) {
		mu.Lock()
		err = multierr.Append(err, e)
		mu.Unlock()
	}

	for i, action := range plan.Actions {
		if failed.Load() {
			break
		}
		if acquireErr := sem.Acquire(ctx, 1); acquireErr != nil {
			recordErr(fmt.Errorf("deploy cancelled before %s: %w", action.Path, acquireErr))
			break
		}
		if failed.Load() {
			sem.Release(1)
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			sem.Release(1)
			recordErr(fmt.Errorf("deploy cancelled before %s: %w", action.Path, ctxErr))
			break
		}

		wg.Add(1)
		go func(i int, action Action) {
			defer wg.Done()
			defer sem.Release(1)
			if e := applyAction(opCtx, storage, site, action); e != nil {
				failed.Store(true)
				recordErr(e)
				return
			}
			applied[i] = true
		}(i, action)
	}
	wg.Wait()

	return applied, err
}

func applyAction(ctx context.Context, storage SiteStorer, site *Site, action Action) error {
	sugar.Infof("%s: %s", action.Path, action.Type)
	if action.Type == ACTION_DELETE {
		return storage.DeleteObject(ctx, site.DomainName(), action.Path)
	}
	return writeFile(ctx, storage, site, action.Path)
}

// writeFile pushes a single local file out to the bucket.
func writeFile(ctx context.Context, storage SiteStorer, site *Site, key string) error {
	localPath := filepath.Join(site.Path, filepath.FromSlash(key))
	f, err := os.Open(localPath)
	if err != nil {
		return &IndexError{Path: localPath, Err: err}
	}
	defer f.Close()

	return storage.PutObject(ctx, site.DomainName(), key, f, site.Headers)
}
