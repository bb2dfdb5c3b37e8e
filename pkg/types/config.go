package types

import (
	"encoding/json"
	"fmt"
	"time"
)

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"120"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	// Optional. When empty, protective monitoring events are only logged.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Auth
	JWKSURL   string `envconfig:"JWKS_URL"`
	JWTIssuer string `envconfig:"JWT_ISSUER"`

	// The front end may hold the access token in an encrypted cookie instead of
	// sending a bearer header. Keys are base64 encoded.
	CookieName     string `envconfig:"COOKIE_NAME" default:"access_token"`
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// Downstream services
	AccountBaseURL            string `envconfig:"ACCOUNT_BASE_URL"`
	AccountTimeoutSec         uint   `envconfig:"ACCOUNT_TIMEOUT_SEC" default:"30"`
	AntivirusBaseURL          string `envconfig:"ANTIVIRUS_BASE_URL"`
	AntivirusTimeoutSec       uint   `envconfig:"ANTIVIRUS_TIMEOUT_SEC" default:"300"`
	AntivirusServiceTag       string `envconfig:"ANTIVIRUS_SERVICE_TAG" default:"epr"`
	AntivirusCollectionSuffix string `envconfig:"ANTIVIRUS_COLLECTION_SUFFIX"`
	SubmissionStatusBaseURL   string `envconfig:"SUBMISSION_STATUS_BASE_URL"`
	SubmissionStatusTimeout   uint   `envconfig:"SUBMISSION_STATUS_TIMEOUT_SEC" default:"30"`
	CommonDataBaseURL         string `envconfig:"COMMON_DATA_BASE_URL"`
	CommonDataTimeoutSec      uint   `envconfig:"COMMON_DATA_TIMEOUT_SEC" default:"30"`
	FeeCalculationBaseURL     string `envconfig:"FEE_CALCULATION_BASE_URL"`
	FeeCalculationTimeoutSec  uint   `envconfig:"FEE_CALCULATION_TIMEOUT_SEC" default:"30"`

	RetryCount   int  `envconfig:"RETRY_COUNT" default:"3"`
	RetryBaseSec uint `envconfig:"RETRY_BASE_SEC" default:"3"`

	// Uploads
	MaxFileNameLength       int   `envconfig:"MAX_FILE_NAME_LENGTH" default:"100"`
	MaxUploadBytes          int64 `envconfig:"MAX_UPLOAD_BYTES" default:"52428800"`
	ScanDispatchConcurrency int   `envconfig:"SCAN_DISPATCH_CONCURRENCY" default:"8"`
	ScanDispatchQueueSize   int   `envconfig:"SCAN_DISPATCH_QUEUE_SIZE" default:"32"`
	ScanDispatchTimeoutSec  uint  `envconfig:"SCAN_DISPATCH_TIMEOUT_SEC" default:"300"`

	// Blob containers (S3 buckets)
	PomContainer           string `envconfig:"POM_CONTAINER" default:"pom-upload-container"`
	RegistrationContainer  string `envconfig:"REGISTRATION_CONTAINER" default:"registration-upload-container"`
	SubsidiaryContainer    string `envconfig:"SUBSIDIARY_CONTAINER" default:"subsidiary-upload-container"`
	AccreditationContainer string `envconfig:"ACCREDITATION_CONTAINER" default:"accreditation-upload-container"`
	S3Endpoint             string `envconfig:"S3_ENDPOINT"`
	S3UsePathStyle         bool   `envconfig:"S3_USE_PATH_STYLE"`
}

// Containers returns the configured blob container names.
func (c *Config) Containers() BlobContainers {
	return BlobContainers{
		Pom:           c.PomContainer,
		Registration:  c.RegistrationContainer,
		Subsidiary:    c.SubsidiaryContainer,
		Accreditation: c.AccreditationContainer,
	}
}

func (c *Config) ScanDispatchTimeout() time.Duration {
	return time.Duration(c.ScanDispatchTimeoutSec) * time.Second
}

// String returns a log safe version of Config in string form.
func (c Config) String() string {
	if c.DatabaseURL != "" {
		c.DatabaseURL = "REDACTED_NOT_EMPTY"
	}
	if c.CookieHashKey != "" {
		c.CookieHashKey = "REDACTED_NOT_EMPTY"
	}
	if c.CookieBlockKey != "" {
		c.CookieBlockKey = "REDACTED_NOT_EMPTY"
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprintf("failed to render config: %s", err)
	}

	return string(data)
}
