// Package constants provides shared constants used throughout the
// ontology-matcher codebase: batch limits, retry policy, timeouts and file
// permissions.
package constants

import "time"

// Batch constants govern how identifiers are sent to resolvers.
const (
	// MaxBatchSize is the hard ceiling on identifiers per resolver call,
	// enforced before any network activity.
	MaxBatchSize = 500

	// DefaultBatchSize is the default number of identifiers per resolver call.
	DefaultBatchSize = 300

	// DefaultSleepTime is the default pause between resolver batches, as a
	// rate-limit courtesy to the backing services.
	DefaultSleepTime = 3 * time.Second
)

// Retry constants define the transport retry policy. Failures are retried
// inside the transport; orchestration only sees terminal success or failure.
const (
	// MaxRetries is the maximum number of attempts for a resolver call.
	MaxRetries = 5

	// RetryWaitMin is the lower bound of the randomized inter-attempt wait.
	RetryWaitMin = 1 * time.Second

	// RetryWaitMax is the upper bound of the randomized inter-attempt wait.
	RetryWaitMax = 15 * time.Second
)

// Network constants.
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the
	// namespace-mapping services.
	DefaultHTTPTimeout = 60 * time.Second

	// UserAgent is sent on every outbound request. Some of the backing
	// services reject requests without a browser-like agent string.
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_4) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/83.0.4103.97 Safari/537.36"
)

// File permission constants define standard Unix file permissions.
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x).
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--).
	FilePermissions = 0644
)

// Service endpoints.
const (
	// OXOURL is the EMBL-EBI OxO cross-reference search endpoint.
	OXOURL = "https://www.ebi.ac.uk/spot/oxo/api/search"

	// OLS4URL is the EMBL-EBI OLS4 term search endpoint.
	OLS4URL = "https://www.ebi.ac.uk/ols4/api/search"

	// MyGeneURL is the MyGene.info query endpoint.
	MyGeneURL = "https://mygene.info/v3/query"

	// MyChemURL is the MyChem.info query endpoint.
	MyChemURL = "https://mychem.info/v1/query"

	// MyDiseaseURL is the MyDisease.info query endpoint.
	MyDiseaseURL = "https://mydisease.info/v1/query"
)
