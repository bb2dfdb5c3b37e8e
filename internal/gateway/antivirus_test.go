package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"submissionsbff/pkg/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFileDetails() types.FileDetails {
	return types.NewFileDetails("epr", "pom-dev", uuid.New(), "report.csv", testCaller())
}

func TestAntivirusSendFile(t *testing.T) {
	details := testFileDetails()
	content := []byte("a,b,c\n1,2,3\n")

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/files/stream/pom-dev/"+details.Key, r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))

		var got types.FileDetails
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("fileDetails")), &got))
		assert.Equal(t, details, got)

		file, header, err := r.FormFile("fileStream")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "report.csv", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, content, data)

		w.WriteHeader(http.StatusOK)
	})

	g := NewAntivirusGateway(srv.URL, NewClient(5*time.Second))
	require.NoError(t, g.SendFile(context.Background(), details, content))
}

func TestAntivirusSendFileIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	g := NewAntivirusGateway(srv.URL, NewClient(5*time.Second))

	err := g.SendFile(context.Background(), testFileDetails(), []byte("x"))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAntivirusScanFile(t *testing.T) {
	details := testFileDetails()
	content := []byte("payload")

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/SyncAV/pom-dev/"+details.Key, r.URL.Path)

		var got types.FileDetails
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, base64.StdEncoding.EncodeToString(content), got.Content)

		_, _ = w.Write([]byte(`"Clean"`))
	})

	g := NewAntivirusGateway(srv.URL, NewClient(5*time.Second))

	verdict, err := g.ScanFile(context.Background(), details, content)
	require.NoError(t, err)
	assert.Equal(t, types.ScanResultClean, verdict)
}

func TestAntivirusScanFileInfected(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"Quarantined"`))
	})

	g := NewAntivirusGateway(srv.URL, NewClient(5*time.Second))

	verdict, err := g.ScanFile(context.Background(), testFileDetails(), []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "Quarantined", verdict)
}
