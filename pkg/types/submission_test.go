package types

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTypeFor(t *testing.T) {
	brands := SubmissionSubTypeBrands
	company := SubmissionSubTypeCompanyDetails

	ft, err := FileTypeFor(SubmissionTypeProducer, &brands)
	require.NoError(t, err)
	assert.Equal(t, FileTypePom, ft)

	ft, err = FileTypeFor(SubmissionTypeRegistration, &company)
	require.NoError(t, err)
	assert.Equal(t, FileTypeCompanyDetails, ft)

	ft, err = FileTypeFor(SubmissionTypeRegistration, &brands)
	require.NoError(t, err)
	assert.Equal(t, FileTypeBrands, ft)

	_, err = FileTypeFor(SubmissionTypeRegistration, nil)
	require.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestParseSubmissionType(t *testing.T) {
	st, err := ParseSubmissionType("Registration")
	require.NoError(t, err)
	assert.Equal(t, SubmissionTypeRegistration, st)
	assert.Equal(t, "registration", st.DisplayName())

	_, err = ParseSubmissionType("registration")
	require.ErrorIs(t, err, ErrUnknownSubmissionType)
}

func TestParseSubmissionSubType(t *testing.T) {
	st, err := ParseSubmissionSubType("Partnerships")
	require.NoError(t, err)
	assert.Equal(t, SubmissionSubTypePartnerships, st)

	_, err = ParseSubmissionSubType("Pom")
	require.Error(t, err)
}

func TestDecodeSubmission(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name string
		json string
		want any
	}{
		{name: "producer", json: `{"id":"` + id.String() + `","type":"Producer","hasWarnings":true}`, want: &PomSubmission{}},
		{name: "registration", json: `{"id":"` + id.String() + `","type":"Registration"}`, want: &RegistrationSubmission{}},
		{name: "subsidiary", json: `{"id":"` + id.String() + `","type":"Subsidiary","recordsAdded":3}`, want: &SubsidiarySubmission{}},
		{name: "accreditation", json: `{"id":"` + id.String() + `","type":"Accreditation"}`, want: &BasicSubmission{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSubmission([]byte(tt.json))
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
			assert.Equal(t, id, got.Base().ID)
		})
	}
}

func TestDecodeSubmissionUnknownType(t *testing.T) {
	_, err := DecodeSubmission([]byte(`{"type":"Mystery"}`))
	require.ErrorIs(t, err, ErrUnknownSubmissionType)

	_, err = DecodeSubmissions([]byte(`[{"type":"Producer"},{"type":"Mystery"}]`))
	require.ErrorIs(t, err, ErrUnknownSubmissionType)
}

func TestDecodeSubmissionKeepsVariantFields(t *testing.T) {
	got, err := DecodeSubmission([]byte(`{"type":"Subsidiary","recordsAdded":7,"isSubmitted":true}`))
	require.NoError(t, err)

	sub := got.(*SubsidiarySubmission)
	require.NotNil(t, sub.RecordsAdded)
	assert.Equal(t, 7, *sub.RecordsAdded)
	assert.True(t, sub.IsSubmitted)
}

func TestTruncateFileName(t *testing.T) {
	long := strings.Repeat("a", 110)
	assert.Len(t, TruncateFileName(long, 100), 100)

	short := strings.Repeat("b", 50)
	assert.Equal(t, short, TruncateFileName(short, 100))

	assert.Equal(t, "ééé", TruncateFileName("éééé", 3))
}

func TestNewFileDetails(t *testing.T) {
	fileID := uuid.New()
	caller := Caller{UserID: uuid.New(), Email: "jo@example.com"}

	d := NewFileDetails("epr", "pomdev", fileID, "packaging.data.csv", caller)

	assert.Equal(t, "epr", d.Service)
	assert.Equal(t, fileID.String(), d.Key)
	assert.Equal(t, ".csv", d.Extension)
	assert.Equal(t, "packaging.data", d.FileName)
	assert.Equal(t, "pomdev", d.Collection)
	assert.Equal(t, caller.UserID.String(), d.UserID)
	assert.Equal(t, "jo@example.com", d.UserEmail)
}

func TestCallerContext(t *testing.T) {
	_, err := CallerFromContext(t.Context())
	require.ErrorIs(t, err, ErrCallerNotFound)

	caller := Caller{UserID: uuid.New(), FirstName: "Jo", LastName: "Bloggs"}
	got, err := CallerFromContext(ContextWithCaller(t.Context(), caller))
	require.NoError(t, err)
	assert.Equal(t, caller, got)
	assert.Equal(t, "Jo Bloggs", got.DisplayName())
}
