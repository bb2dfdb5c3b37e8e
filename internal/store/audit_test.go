package store

import (
	"strings"
	"testing"

	"submissionsbff/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAuditEventQuery(t *testing.T) {
	query, args, err := insertAuditEventQuery(types.ProtectiveMonitoringEvent{
		SessionID:       "sess",
		Component:       "submissions-bff",
		PmcCode:         "0212",
		Priority:        types.AuditPriorityNormal,
		TransactionCode: "UploadFile",
		Message:         "file uploaded",
		SubmissionID:    "sub-1",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "INSERT INTO protective_monitoring_events"))
	assert.Contains(t, query, "$13")
	require.Len(t, args, 13)

	var (
		nilCount int
		ids      []string
	)
	for _, arg := range args {
		if arg == nil {
			nilCount++
			continue
		}
		if v, ok := arg.(string); ok {
			ids = append(ids, v)
		}
	}

	// additional_info, user_id, organisation_id and file_id were empty
	assert.Equal(t, 4, nilCount)
	assert.Len(t, ids, 7)
	assert.Contains(t, ids, "sess")
}

func TestEventsBySubmissionQuery(t *testing.T) {
	query, args, err := eventsBySubmissionQuery("sub-1")
	require.NoError(t, err)

	assert.Contains(t, query, "FROM protective_monitoring_events WHERE submission_id = $1 ORDER BY created_at ASC")
	assert.Equal(t, []any{"sub-1"}, args)
	assert.Len(t, auditTableColumns, 13)
}
