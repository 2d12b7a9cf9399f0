package main

const (
	INDEX_DOCUMENT         = "index.html"
	ERROR_DOCUMENT         = "404.html"
	ENV_ACCESS_KEY_ID      = "AWSAccessKeyId"
	ENV_SECRET_KEY         = "AWSSecretKey"
	CDN_REGION             = "us-east-1"
	DEFAULT_BUCKET_REGION  = "us-east-1"
	DEFAULT_CONFIG_VERSION = "1.0.0"
	SUPPORTED_CONFIG_RANGE = ">=1.0.0 <2.0.0"
	CONTENT_SNIFF_BYTES    = 512
	OPTION_REGION          = "region"
	OPTION_ENDPOINT        = "endpoint"
	OPTION_PATH_STYLE      = "path_style"
	OPTION_MAX_ATTEMPTS    = "max_attempts"
	DEFAULT_APPLY_WORKERS  = 1
)
