package main

import (
	"context"
	"errors"
	"fmt"
)

func (s DeployState) String() string {
	switch s {
	case STATE_START:
		return "start"
	case STATE_VALIDATED:
		return "validated"
	case STATE_BUCKET_READY:
		return "bucket-ready"
	case STATE_INDEXED:
		return "indexed"
	case STATE_RECONCILED:
		return "reconciled"
	case STATE_INVALIDATED:
		return "invalidated"
	case STATE_DONE:
		return "done"
	}
	return "unknown"
}

// Deployer executes a single deploy of a Site. It is not reusable: after Run
// the index, plan and updated paths stay available for inspection, and a new
// Deployer must be built for the next deploy.
type Deployer struct {
	site        *Site
	storage     SiteStorer
	cdn         CDNInvalidator
	concurrency int
	dryRun      bool

	state   DeployState
	index   LocalIndex
	plan    Plan
	planned bool
	applied []bool
	digest  string
}

type DeployerOption func(*Deployer)

func WithConcurrency(n int) DeployerOption {
	return func(d *Deployer) { d.concurrency = n }
}

// WithDryRun stops the deploy once the plan is computed. Nothing is written to
// the bucket or the CDN.
func WithDryRun(dryRun bool) DeployerOption {
	return func(d *Deployer) { d.dryRun = dryRun }
}

func NewDeployer(site *Site, storage SiteStorer, cdn CDNInvalidator, opts ...DeployerOption) *Deployer {
	d := &Deployer{
		site:        site,
		storage:     storage,
		cdn:         cdn,
		concurrency: DEFAULT_APPLY_WORKERS,
		state:       STATE_START,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DeploySite runs one deploy of site with a fresh Deployer.
func DeploySite(ctx context.Context, site *Site, storage SiteStorer, cdn CDNInvalidator, opts ...DeployerOption) (*Deployer, error) {
	d := NewDeployer(site, storage, cdn, opts...)
	return d, d.Run(ctx)
}

func (d *Deployer) Run(ctx context.Context) error {
	if d.state != STATE_START {
		return newUsageError("deployer for %s already ran (state %s), create a new one per deploy", d.site.DomainName(), d.state)
	}

	if err := d.validate(); err != nil {
		return err
	}
	d.state = STATE_VALIDATED

	if d.dryRun {
		sugar.Infof("dry run: not touching bucket %s", d.site.DomainName())
	} else {
		err := d.storage.EnsureBucket(ctx, d.site.DomainName(), WebsiteConfig{
			IndexDocument: INDEX_DOCUMENT,
			ErrorDocument: ERROR_DOCUMENT,
		})
		if err != nil {
			return err
		}
	}
	d.state = STATE_BUCKET_READY

	index, err := BuildLocalIndex(d.site.Path)
	if err != nil {
		return err
	}
	d.index = index
	d.digest, err = SiteDigest(d.site.Path, index)
	if err != nil {
		sugar.Warnf("unable to compute digest of %s: %v", d.site.Path, err)
	}
	sugar.Debugf("indexed %d local files under %s (%s)", len(index), d.site.Path, d.digest)
	d.state = STATE_INDEXED

	remote, err := d.storage.ListObjects(ctx, d.site.DomainName())
	if err != nil {
		if !d.dryRun || !errors.Is(err, ErrBucketNotFound) {
			return err
		}
		sugar.Infof("dry run: bucket %s does not exist yet, planning against an empty bucket", d.site.DomainName())
	}
	d.plan = Reconcile(d.index, remote, d.site.DestroyOldFiles)
	d.planned = true
	for _, path := range d.plan.Unchanged {
		sugar.Infof("%s: unchanged", path)
	}

	if d.dryRun {
		for _, action := range d.plan.Actions {
			sugar.Infof("%s: %s (dry run)", action.Path, action.Type)
		}
		sugar.Infof("dry run: would invalidate %v", d.plan.UpdatedPaths())
		d.state = STATE_DONE
		return nil
	}

	d.applied, err = ApplyPlan(ctx, d.storage, d.site, d.plan, d.concurrency)
	if err != nil {
		return fmt.Errorf("error syncing %s: %w", d.site.DomainName(), err)
	}
	d.state = STATE_RECONCILED

	if d.site.DistributionID != "" {
		if err := Invalidate(ctx, d.cdn, d.site.DistributionID, d.UpdatedPaths()); err != nil {
			return err
		}
		d.state = STATE_INVALIDATED
	}

	sugar.Infof("deployed %s: %d new, %d updated, %d deleted, %d unchanged, digest %s",
		d.site.DomainName(),
		d.plan.Count(ACTION_NEW),
		d.plan.Count(ACTION_UPDATE),
		d.plan.Count(ACTION_DELETE),
		len(d.plan.Unchanged),
		d.digest,
	)
	d.state = STATE_DONE
	return nil
}

func (d *Deployer) validate() error {
	if err := d.site.Validate(); err != nil {
		return err
	}
	if d.storage == nil {
		return newUsageError("no storage configured for %s", d.site.DomainName())
	}
	if d.site.DistributionID != "" && d.cdn == nil {
		return newUsageError("distribution %s configured without a CDN client", d.site.DistributionID)
	}
	return nil
}

func (d *Deployer) State() DeployState {
	return d.state
}

// Index returns the local index. Once the plan has been computed only the new
// files, those never seen in the bucket, remain in it.
func (d *Deployer) Index() LocalIndex {
	if !d.planned {
		return d.index
	}
	leftover := make(LocalIndex)
	for _, path := range d.plan.NewFiles() {
		leftover[path] = d.index[path]
	}
	return leftover
}

// FullIndex returns the complete local index built for this deploy.
func (d *Deployer) FullIndex() LocalIndex {
	return d.index
}

func (d *Deployer) Plan() Plan {
	return d.plan
}

// UpdatedPaths lists, in plan order, the CDN paths of every update and
// deletion that was actually applied.
func (d *Deployer) UpdatedPaths() []string {
	if d.applied == nil {
		return []string{}
	}
	return d.plan.updatedPathsFor(d.applied)
}

func (d *Deployer) SiteDigest() string {
	return d.digest
}
