package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	semver "github.com/blang/semver/v4"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var sugar *zap.SugaredLogger

func main() {
	var configPath string
	var loggerType string
	var siteName string
	var dryRun bool
	var concurrency int

	flag.StringVar(&configPath, "config-path", "config.yaml", "Path to configuration file")
	flag.StringVar(&loggerType, "logger-type", "development", "Logger type (development or production)")
	flag.StringVar(&siteName, "site", "", "Only deploy the site with this domain name")
	flag.BoolVar(&dryRun, "dry-run", false, "Compute and log the sync plan without changing the bucket or CDN")
	flag.IntVar(&concurrency, "concurrency", DEFAULT_APPLY_WORKERS, "Maximum number of uploads/deletes in flight")
	flag.Parse()

	if !StringInSlice(loggerType, []string{"development", "production"}) {
		panic(fmt.Errorf("%s is not a valid logger type", loggerType))
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if loggerType == "development" {
		logger, _ = zap.NewDevelopment()
	} else if loggerType == "production" {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	sugar = logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = DeploySitesWithConfig(ctx, config, siteName, dryRun, concurrency)
	if err != nil {
		sugar.Errorf("deploy failed: %v", err)
		stop()
		logger.Sync()
		os.Exit(1)
	}
}

func LoadConfig(configPath string) (config Configuration, err error) {
	var configRaw configRaw
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(configData, &configRaw)
	if err != nil {
		return config, err
	}

	if err := checkConfigVersion(configRaw.ConfigVersion); err != nil {
		return config, err
	}

	configDir := filepath.Dir(configPath)

	switch x := strings.ToLower(configRaw.StorageType); x {
	case "", "s3":
		config.StorageType = STORAGE_TYPE_S3
	case "fs":
		config.StorageType = STORAGE_TYPE_FS
		if configRaw.FSConfig.Root == "" {
			return config, fmt.Errorf("fs storage requires fs_config.root")
		}
		config.FSConfig = configRaw.FSConfig
		if !filepath.IsAbs(config.FSConfig.Root) {
			config.FSConfig.Root = filepath.Join(configDir, config.FSConfig.Root)
		}
	default:
		return config, fmt.Errorf("%s is not a known storage type", x)
	}

	for i, sc := range configRaw.Sites {
		if sc.DomainName == "" {
			return config, fmt.Errorf("site %d has no domain_name", i)
		}
		path := sc.Path
		if path == "" {
			path = "."
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(configDir, path)
		}

		site := NewSite(sc.DomainName,
			WithPath(path),
			WithDestroyOldFiles(sc.DestroyOldFiles),
			WithDistributionID(sc.DistributionID),
			WithHeaders(sc.Headers),
			WithAccessKeyID(sc.AccessKeyID),
			WithSecretKey(sc.SecretKey),
			WithProviderOptions(sc.ProviderOptions),
		)
		if _, err := parseProviderOptions(sc.ProviderOptions); err != nil {
			return config, fmt.Errorf("site %s: %w", sc.DomainName, err)
		}
		config.Sites = append(config.Sites, site)
	}

	return config, nil
}

func checkConfigVersion(raw string) error {
	if raw == "" {
		raw = DEFAULT_CONFIG_VERSION
	}
	version, err := semver.ParseTolerant(raw)
	if err != nil {
		return fmt.Errorf("invalid config_version %q: %w", raw, err)
	}
	supported := semver.MustParseRange(SUPPORTED_CONFIG_RANGE)
	if !supported(version) {
		return fmt.Errorf("config_version %s is not supported (want %s)", version, SUPPORTED_CONFIG_RANGE)
	}
	return nil
}

// DeploySitesWithConfig deploys each configured site in order, or only the one
// named by siteName, stopping at the first failure.
func DeploySitesWithConfig(ctx context.Context, config Configuration, siteName string, dryRun bool, concurrency int) error {
	deployed := 0
	for _, site := range config.Sites {
		if siteName != "" && site.DomainName() != siteName {
			continue
		}
		deployed++

		// credentials are checked before any client is built
		if err := site.Validate(); err != nil {
			return fmt.Errorf("site %s: %w", site.DomainName(), err)
		}

		var storage SiteStorer
		var err error
		if config.StorageType == STORAGE_TYPE_FS {
			storage = NewFSSiteStorage(config.FSConfig.Root)
		} else {
			storage, err = NewS3SiteStorage(ctx, site)
			if err != nil {
				return fmt.Errorf("site %s: %w", site.DomainName(), err)
			}
		}
		var cdn CDNInvalidator
		if site.DistributionID != "" {
			cdn, err = NewCloudFrontInvalidator(ctx, site)
			if err != nil {
				return fmt.Errorf("site %s: %w", site.DomainName(), err)
			}
		}

		sugar.Infof("deploying %s", site)
		_, err = DeploySite(ctx, site, storage, cdn, WithDryRun(dryRun), WithConcurrency(concurrency))
		if err != nil {
			return err
		}
	}

	if siteName != "" && deployed == 0 {
		return fmt.Errorf("no site named %s in config", siteName)
	}
	return nil
}
