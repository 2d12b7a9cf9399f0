package main

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/google/uuid"
	"github.com/xorcare/pointer"
)

type CloudFrontInvalidator struct {
	cfclient *cloudfront.Client
}

// NewCloudFrontInvalidator builds the CDN client from the site's CDN options,
// which never carry the storage region.
func NewCloudFrontInvalidator(ctx context.Context, site *Site) (*CloudFrontInvalidator, error) {
	opts, err := parseProviderOptions(site.CDNOptions())
	if err != nil {
		return nil, err
	}
	awscfg, err := loadAWSConfig(ctx, site, opts, CDN_REGION)
	if err != nil {
		return nil, err
	}
	return &CloudFrontInvalidator{cfclient: cloudfront.NewFromConfig(awscfg)}, nil
}

func (c *CloudFrontInvalidator) Invalidate(ctx context.Context, distributionID string, paths []string) error {
	output, err := c.cfclient.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: pointer.String(distributionID),
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: pointer.String(uuid.NewString()),
			Paths: &cftypes.Paths{
				Quantity: pointer.Int32(int32(len(paths))),
				Items:    paths,
			},
		},
	})
	if err != nil {
		return &RemoteError{Op: "create invalidation", Key: distributionID, Err: err}
	}
	if output.Invalidation != nil {
		sugar.Infof("posted invalidation %s for %d paths on %s", aws.ToString(output.Invalidation.Id), len(paths), distributionID)
	}
	return nil
}

var _ CDNInvalidator = (*CloudFrontInvalidator)(nil)
