// Package collect describes a live AWS account into a region-keyed
// inventory document, the same shape the pipeline's normalizer accepts from
// file imports. Collection is read-only: every call is a Describe.
//
// Failures are per-family, not per-run: a denied DescribeDBInstances still
// yields the VPCs and instances the credentials could see, with the gap
// logged. A region where nothing at all could be described is dropped from
// the document.
package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cloudweave/cloudweave/pkg/observability"
)

// Options configures a collection run.
type Options struct {
	// Profile selects the AWS shared-config profile. Empty means the
	// default profile.
	Profile string

	// Regions lists the regions to describe. Empty means the profile's
	// configured region only.
	Regions []string
}

// Inventory is the collected document plus run metadata. The Regions map
// is the pipeline's region-keyed input shape and marshals directly to the
// importable JSON.
type Inventory struct {
	SnapshotID  string
	CollectedAt time.Time
	Regions     map[string]map[string][]map[string]any
}

// Document returns the region-keyed map the normalizer accepts.
func (inv *Inventory) Document() map[string]map[string][]map[string]any {
	return inv.Regions
}

// Collector describes AWS accounts. The zero value is not usable; use
// NewCollector.
type Collector struct {
	factory ClientFactory
	logger  *log.Logger
}

// NewCollector returns a collector backed by the real AWS SDK.
func NewCollector(logger *log.Logger) *Collector {
	return NewCollectorWithFactory(NewClientSet, logger)
}

// NewCollectorWithFactory returns a collector using f to create service
// clients. Pass a stub factory in tests.
func NewCollectorWithFactory(f ClientFactory, logger *log.Logger) *Collector {
	if logger == nil {
		logger = log.Default()
	}
	return &Collector{factory: f, logger: logger}
}

// Collect loads credentials for the configured profile and describes every
// requested region into an inventory document.
func (c *Collector) Collect(ctx context.Context, opts Options) (*Inventory, error) {
	cfg, err := c.loadConfig(ctx, opts.Profile)
	if err != nil {
		return nil, err
	}

	regions := opts.Regions
	if len(regions) == 0 {
		regions = []string{cfg.Region}
	}

	inv := &Inventory{
		SnapshotID:  uuid.NewString(),
		CollectedAt: time.Now().UTC(),
		Regions:     make(map[string]map[string][]map[string]any, len(regions)),
	}

	hooks := observability.Collector()
	for _, region := range regions {
		hooks.OnRegionStart(ctx, region)
		start := time.Now()

		families, err := c.collectRegion(ctx, cfg, region)
		if err != nil {
			hooks.OnRegionComplete(ctx, region, 0, time.Since(start), err)
			c.logger.Warn("region skipped", "region", region, "err", err)
			continue
		}

		count := 0
		for _, records := range families {
			count += len(records)
		}
		hooks.OnRegionComplete(ctx, region, count, time.Since(start), nil)
		c.logger.Info("collected region", "region", region, "resources", count)
		inv.Regions[region] = families
	}

	if len(inv.Regions) == 0 {
		return nil, fmt.Errorf("no region could be described (checked %d)", len(regions))
	}
	return inv, nil
}

// loadConfig resolves the AWS shared config for a profile. A profile with
// no region falls back to us-east-1 so clients can always be constructed.
func (c *Collector) loadConfig(ctx context.Context, profile string) (aws.Config, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load AWS profile %q: %w", profile, err)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	return cfg, nil
}

// collectRegion describes one region family by family. Individual family
// failures are logged and leave the family absent; an error is returned
// only when the networking baseline (VPCs) could not be read, since a
// diagram without containment is useless.
func (c *Collector) collectRegion(ctx context.Context, cfg aws.Config, region string) (map[string][]map[string]any, error) {
	clients := c.factory(cfg, region)
	families := make(map[string][]map[string]any)

	vpcs, err := collectVPCs(ctx, clients.EC2)
	if err != nil {
		return nil, fmt.Errorf("describe VPCs: %w", err)
	}
	families["vpcs"] = vpcs

	type family struct {
		key     string
		collect func(context.Context, ClientSet) ([]map[string]any, error)
	}
	optional := []family{
		{"subnets", func(ctx context.Context, cs ClientSet) ([]map[string]any, error) { return collectSubnets(ctx, cs.EC2) }},
		{"internet_gateways", func(ctx context.Context, cs ClientSet) ([]map[string]any, error) { return collectInternetGateways(ctx, cs.EC2) }},
		{"nat_gateways", func(ctx context.Context, cs ClientSet) ([]map[string]any, error) { return collectNATGateways(ctx, cs.EC2) }},
		{"route_tables", func(ctx context.Context, cs ClientSet) ([]map[string]any, error) { return collectRouteTables(ctx, cs.EC2) }},
		{"security_groups", func(ctx context.Context, cs ClientSet) ([]map[string]any, error) { return collectSecurityGroups(ctx, cs.EC2) }},
		{"vpc_endpoints", func(ctx context.Context, cs ClientSet) ([]map[string]any, error) { return collectVPCEndpoints(ctx, cs.EC2) }},
		{"instances", func(ctx context.Context, cs ClientSet) ([]map[string]any, error) { return collectInstances(ctx, cs.EC2) }},
		{"load_balancers", func(ctx context.Context, cs ClientSet) ([]map[string]any, error) { return collectLoadBalancers(ctx, cs.ELB) }},
		{"target_groups", func(ctx context.Context, cs ClientSet) ([]map[string]any, error) { return collectTargetGroups(ctx, cs.ELB) }},
		{"rds_instances", func(ctx context.Context, cs ClientSet) ([]map[string]any, error) { return collectDBInstances(ctx, cs.RDS) }},
	}

	for _, fam := range optional {
		records, err := fam.collect(ctx, clients)
		if err != nil {
			observability.Collector().OnServiceError(ctx, region, fam.key, err)
			c.logger.Warn("family skipped", "region", region, "family", fam.key, "err", err)
			continue
		}
		if len(records) > 0 {
			families[fam.key] = records
		}
	}

	return families, nil
}
