package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	awss3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/xorcare/pointer"
)

// S3SiteStorage is the SiteStorer backed by an S3 (or S3-compatible) bucket.
type S3SiteStorage struct {
	awss3client *awss3.Client
	region      string
}

func NewS3SiteStorage(ctx context.Context, site *Site) (*S3SiteStorage, error) {
	opts, err := parseProviderOptions(site.StorageOptions())
	if err != nil {
		return nil, err
	}
	awscfg, err := loadAWSConfig(ctx, site, opts, DEFAULT_BUCKET_REGION)
	if err != nil {
		return nil, err
	}

	client := awss3.NewFromConfig(awscfg, func(o *awss3.Options) {
		o.UsePathStyle = opts.pathStyle
	})
	return &S3SiteStorage{awss3client: client, region: awscfg.Region}, nil
}

func (t *S3SiteStorage) EnsureBucket(ctx context.Context, bucket string, website WebsiteConfig) error {
	sugar.Infof("using bucket: %s", bucket)
	_, err := t.awss3client.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: &bucket})
	if err != nil {
		if !isBucketMissing(err) {
			return &RemoteError{Op: "head bucket", Key: bucket, Err: err}
		}

		sugar.Infof("creating new bucket %s in %s", bucket, t.region)
		input := awss3.CreateBucketInput{
			Bucket: &bucket,
			ACL:    awss3types.BucketCannedACLPublicRead,
		}
		// us-east-1 rejects an explicit location constraint
		if t.region != "" && t.region != DEFAULT_BUCKET_REGION {
			input.CreateBucketConfiguration = &awss3types.CreateBucketConfiguration{
				LocationConstraint: awss3types.BucketLocationConstraint(t.region),
			}
		}
		if _, err := t.awss3client.CreateBucket(ctx, &input); err != nil {
			return &RemoteError{Op: "create bucket", Key: bucket, Err: err}
		}
	}

	_, err = t.awss3client.PutBucketWebsite(ctx, &awss3.PutBucketWebsiteInput{
		Bucket: &bucket,
		WebsiteConfiguration: &awss3types.WebsiteConfiguration{
			IndexDocument: &awss3types.IndexDocument{Suffix: pointer.String(website.IndexDocument)},
			ErrorDocument: &awss3types.ErrorDocument{Key: pointer.String(website.ErrorDocument)},
		},
	})
	if err != nil {
		return &RemoteError{Op: "put bucket website", Key: bucket, Err: err}
	}
	return nil
}

func (t *S3SiteStorage) ListObjects(ctx context.Context, bucket string) ([]RemoteObject, error) {
	var objects []RemoteObject
	input := awss3.ListObjectsV2Input{Bucket: &bucket}
	for {
		objectListOutput, err := t.awss3client.ListObjectsV2(ctx, &input)
		if err != nil {
			if isBucketMissing(err) {
				err = fmt.Errorf("%w: %w", ErrBucketNotFound, err)
			}
			return nil, &RemoteError{Op: "list objects", Key: bucket, Err: err}
		}
		for _, object := range objectListOutput.Contents {
			objects = append(objects, RemoteObject{
				Path:        aws.ToString(object.Key),
				Fingerprint: unquoteETag(aws.ToString(object.ETag)),
			})
		}
		if !aws.ToBool(objectListOutput.IsTruncated) || objectListOutput.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = objectListOutput.NextContinuationToken
	}

	return objects, nil
}

// PutObject uploads body as a publicly readable object.
func (t *S3SiteStorage) PutObject(ctx context.Context, bucket string, key string, body io.ReadSeeker, headers map[string]string) error {
	poi := awss3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   body,
		ACL:    awss3types.ObjectCannedACLPublicRead,
	}
	if err := applyHeaders(&poi, headers); err != nil {
		return newUsageError("%v", err)
	}
	if poi.ContentType == nil {
		contentType, err := detectContentType(key, body)
		if err != nil {
			return &RemoteError{Op: "put", Key: key, Err: err}
		}
		poi.ContentType = &contentType
	}

	if _, err := t.awss3client.PutObject(ctx, &poi); err != nil {
		return &RemoteError{Op: "put", Key: key, Err: err}
	}
	return nil
}

func (t *S3SiteStorage) DeleteObject(ctx context.Context, bucket string, key string) error {
	_, err := t.awss3client.DeleteObject(ctx, &awss3.DeleteObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		return &RemoteError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func unquoteETag(etag string) string {
	return strings.Trim(etag, `"`)
}

func isBucketMissing(err error) bool {
	var notFound *awss3types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchBucket *awss3types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return StringInSlice(apiErr.ErrorCode(), []string{"NotFound", "NoSuchBucket"})
	}
	return false
}

var _ SiteStorer = (*S3SiteStorage)(nil)
