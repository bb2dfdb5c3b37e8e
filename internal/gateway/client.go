package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// maxErrorBody caps how much of a failed response is kept on a StatusError.
const maxErrorBody = 4096

// RetryPolicy configures retries of transient failures (network errors and
// 5xx responses). Waits grow exponentially from BaseWait.
type RetryPolicy struct {
	Attempts int
	BaseWait time.Duration
}

// NewRetryClient returns an *http.Client that retries per policy. The timeout
// applies to each attempt.
func NewRetryClient(logger logrus.FieldLogger, policy RetryPolicy, timeout time.Duration) *http.Client {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = timeout
	client.RetryMax = policy.Attempts
	client.RetryWaitMin = policy.BaseWait
	client.RetryWaitMax = policy.BaseWait << max(policy.Attempts, 0)
	client.Backoff = retryablehttp.DefaultBackoff
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = retryLogger{logger: logger}

	return client.StandardClient()
}

// retryLogger adapts a logrus logger to retryablehttp's leveled logging so
// per-attempt chatter stays at debug.
type retryLogger struct {
	logger logrus.FieldLogger
}

var _ retryablehttp.LeveledLogger = retryLogger{}

func (l retryLogger) entry(keysAndValues []any) *logrus.Entry {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return l.logger.WithFields(fields)
}

func (l retryLogger) Error(msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Error(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Warn(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Info(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Debug(msg)
}

// NewClient returns a plain client with a hard timeout and no retries.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// StatusError is returned when a downstream service answers with a status the
// caller did not expect.
type StatusError struct {
	Service    string
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s %s failed with code %d: %s", e.Service, e.Method, e.URL, e.StatusCode, e.Body)
}

// service holds what every gateway needs to reach one downstream.
type service struct {
	name    string
	baseURL string
	client  *http.Client
}

func (s *service) url(format string, args ...any) string {
	return s.baseURL + fmt.Sprintf(format, args...)
}

func (s *service) do(req *http.Request) (*http.Response, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s %s %s: %w", s.name, req.Method, req.URL.Path, err)
	}
	return resp, nil
}

// statusError consumes the response body.
func (s *service) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Service:    s.name,
		Method:     resp.Request.Method,
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}

// expect fails with a StatusError unless resp is 2xx.
func (s *service) expect(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return s.statusError(resp)
	}
	return nil
}

func (s *service) decode(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", s.name, err)
	}
	return nil
}

func withQuery(u, rawQuery string) string {
	if rawQuery == "" {
		return u
	}
	if rawQuery[0] == '?' {
		return u + rawQuery
	}
	return u + "?" + rawQuery
}
