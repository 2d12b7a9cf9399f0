package main

// Site describes what gets deployed and where. Build one with NewSite.
type Site struct {
	domainName      string
	accessKeyID     string
	secretKey       string
	providerOptions map[string]any

	Path            string
	DestroyOldFiles bool
	DistributionID  string
	Headers         map[string]string
}

// LocalIndex maps a slash-separated path relative to the site root to the hex
// MD5 of the file contents.
type LocalIndex map[string]string

// RemoteObject is one entry of the bucket listing. Fingerprint is the ETag
// without its surrounding quotes.
type RemoteObject struct {
	Path        string
	Fingerprint string
}

type ActionType int

const (
	ACTION_UPDATE ActionType = iota
	ACTION_DELETE
	ACTION_NEW
)

// Action is a single remote-mutating step produced by Reconcile.
type Action struct {
	Type ActionType
	Path string
}

// Plan is the reconciliation result: the actions to apply in order, the
// paths left untouched, and the invalidation paths each action contributes.
type Plan struct {
	Actions   []Action
	Unchanged []string
	// parallel to Actions, nil for new files
	invalidations [][]string
}

type DeployState int

const (
	STATE_START DeployState = iota
	STATE_VALIDATED
	STATE_BUCKET_READY
	STATE_INDEXED
	STATE_RECONCILED
	STATE_INVALIDATED
	STATE_DONE
)

type WebsiteConfig struct {
	IndexDocument string
	ErrorDocument string
}
