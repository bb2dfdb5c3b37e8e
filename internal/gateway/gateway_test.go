package gateway

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"submissionsbff/pkg/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testCaller() types.Caller {
	return types.Caller{
		UserID:         uuid.MustParse("6a1d3b52-3a0b-4c3e-9a8e-0b4d1a7c2f11"),
		OrganisationID: uuid.MustParse("0f1b6c4e-8d7a-4e0f-a2b3-9c8d7e6f5a40"),
		Email:          "jo@example.com",
		FirstName:      "Jo",
		LastName:       "Bloggs",
	}
}

// noRetryClient keeps tests fast; retries are covered separately.
func noRetryClient() *http.Client {
	return NewRetryClient(testLogger(), RetryPolicy{Attempts: 0, BaseWait: time.Millisecond}, 5*time.Second)
}

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}
