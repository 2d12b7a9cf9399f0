package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/xorcare/pointer"
)

type awsClientOptions struct {
	region      string
	endpoint    string
	pathStyle   bool
	maxAttempts int
}

func parseProviderOptions(opts map[string]any) (awsClientOptions, error) {
	var parsed awsClientOptions
	for k, v := range opts {
		var ok bool
		switch k {
		case OPTION_REGION:
			parsed.region, ok = v.(string)
		case OPTION_ENDPOINT:
			parsed.endpoint, ok = v.(string)
		case OPTION_PATH_STYLE:
			parsed.pathStyle, ok = v.(bool)
		case OPTION_MAX_ATTEMPTS:
			switch n := v.(type) {
			case int:
				parsed.maxAttempts, ok = n, true
			case int64:
				parsed.maxAttempts, ok = int(n), true
			case float64:
				parsed.maxAttempts, ok = int(n), n == float64(int(n))
			}
		default:
			return parsed, newUsageError("unknown provider option %q", k)
		}
		if !ok {
			return parsed, newUsageError("provider option %q has unsupported value %v (%T)", k, v, v)
		}
	}
	return parsed, nil
}

// loadAWSConfig builds a client configuration from the site's credentials and
// the given options. Nothing is read from or written to shared process state
// apart from the SDK's default loaders.
func loadAWSConfig(ctx context.Context, site *Site, opts awsClientOptions, defaultRegion string) (aws.Config, error) {
	region := opts.region
	if region == "" {
		region = defaultRegion
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(site.AccessKeyID(), site.SecretKey(), "")),
	}
	if opts.maxAttempts > 0 {
		loadOpts = append(loadOpts, awsconfig.WithRetryMaxAttempts(opts.maxAttempts))
	}

	awscfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	if opts.endpoint != "" {
		awscfg.BaseEndpoint = pointer.String(opts.endpoint)
	}
	return awscfg, nil
}
