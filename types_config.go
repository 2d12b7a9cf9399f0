package main

// types used for the config
type siteConfig struct {
	DomainName      string            `yaml:"domain_name"`
	Path            string            `yaml:"path"`
	DestroyOldFiles bool              `yaml:"destroy_old_files"`
	DistributionID  string            `yaml:"distribution_id"`
	Headers         map[string]string `yaml:"headers"`
	AccessKeyID     string            `yaml:"access_key_id"`
	SecretKey       string            `yaml:"secret_key"`
	ProviderOptions map[string]any    `yaml:"provider_options"`
}

type fsConfig struct {
	Root string `yaml:"root"`
}

type configRaw struct {
	ConfigVersion string       `yaml:"config_version"`
	StorageType   string       `yaml:"storage_type"`
	FSConfig      fsConfig     `yaml:"fs_config"`
	Sites         []siteConfig `yaml:"sites"`
}

type SiteStorageType int

const (
	STORAGE_TYPE_S3 SiteStorageType = iota
	STORAGE_TYPE_FS
)

type Configuration struct {
	StorageType SiteStorageType
	FSConfig    fsConfig
	Sites       []*Site
}
