package main

import (
	"fmt"
	"os"
	"strings"
)

type SiteOption func(*Site)

func WithPath(path string) SiteOption {
	return func(s *Site) { s.Path = path }
}

func WithDestroyOldFiles(destroy bool) SiteOption {
	return func(s *Site) { s.DestroyOldFiles = destroy }
}

func WithDistributionID(id string) SiteOption {
	return func(s *Site) { s.DistributionID = id }
}

func WithHeaders(headers map[string]string) SiteOption {
	return func(s *Site) { s.Headers = headers }
}

func WithAccessKeyID(id string) SiteOption {
	return func(s *Site) { s.accessKeyID = id }
}

func WithSecretKey(key string) SiteOption {
	return func(s *Site) { s.secretKey = key }
}

func WithProviderOptions(opts map[string]any) SiteOption {
	return func(s *Site) { s.providerOptions = opts }
}

func NewSite(domainName string, opts ...SiteOption) *Site {
	s := &Site{domainName: domainName, Path: "."}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Site) DomainName() string {
	return s.domainName
}

func (s *Site) String() string {
	return fmt.Sprintf("%s (%s)", s.domainName, s.Path)
}

// AccessKeyID falls back to $AWSAccessKeyId when none was configured.
func (s *Site) AccessKeyID() string {
	if s.accessKeyID != "" {
		return s.accessKeyID
	}
	return os.Getenv(ENV_ACCESS_KEY_ID)
}

// SecretKey falls back to $AWSSecretKey when none was configured.
func (s *Site) SecretKey() string {
	if s.secretKey != "" {
		return s.secretKey
	}
	return os.Getenv(ENV_SECRET_KEY)
}

func (s *Site) Validate() error {
	if strings.TrimSpace(s.domainName) == "" {
		return newUsageError("no domain name specified")
	}
	if s.AccessKeyID() == "" {
		return newUsageError("no AccessKeyId specified")
	}
	if s.SecretKey() == "" {
		return newUsageError("no SecretKey specified")
	}
	if err := validateHeaders(s.Headers); err != nil {
		return newUsageError("%v", err)
	}
	_, err := parseProviderOptions(s.providerOptions)
	return err
}

// StorageOptions returns a copy of the provider options used to build the
// storage client.
func (s *Site) StorageOptions() map[string]any {
	opts := make(map[string]any, len(s.providerOptions))
	for k, v := range s.providerOptions {
		opts[k] = v
	}
	return opts
}

// CDNOptions is StorageOptions without the region; invalidations are always
// signed for the global CDN region.
func (s *Site) CDNOptions() map[string]any {
	opts := s.StorageOptions()
	delete(opts, OPTION_REGION)
	return opts
}
