package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionValidate(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{
			name:    "valid with numeric score",
			payload: `{"name":"Ann","email":"a@x.com","score":80,"courseName":"CS101"}`,
		},
		{
			name:    "valid with string score",
			payload: `{"name":"Ann","email":"a@x.com","score":"80.5","courseName":"CS101"}`,
		},
		{
			name:    "missing name",
			payload: `{"email":"a@x.com","score":80,"courseName":"CS101"}`,
			wantErr: "name is required",
		},
		{
			name:    "missing email",
			payload: `{"name":"Ann","score":80,"courseName":"CS101"}`,
			wantErr: "email is required",
		},
		{
			name:    "missing courseName",
			payload: `{"name":"Ann","email":"a@x.com","score":80}`,
			wantErr: "courseName is required",
		},
		{
			name:    "missing score",
			payload: `{"name":"Ann","email":"a@x.com","courseName":"CS101"}`,
			wantErr: "score is required",
		},
		{
			name:    "non-numeric score",
			payload: `{"name":"Ann","email":"a@x.com","score":"eighty","courseName":"CS101"}`,
			wantErr: "score must be a number",
		},
		{
			name:    "boolean score",
			payload: `{"name":"Ann","email":"a@x.com","score":true,"courseName":"CS101"}`,
			wantErr: "score must be a number",
		},
		{
			name:    "null score",
			payload: `{"name":"Ann","email":"a@x.com","score":null,"courseName":"CS101"}`,
			wantErr: "score is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var sub Submission
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &sub))

			err := sub.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tc.wantErr, err.Error())
			}
		})
	}
}

func TestSubmissionRecord(t *testing.T) {
	sub := Submission{
		Name:       "Ann",
		Email:      "a@x.com",
		CourseName: "CS101",
		Score:      RawScore("95.5"),
	}
	require.NoError(t, sub.Validate())

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := sub.Record(now)

	assert.Equal(t, "Ann", rec.Name)
	assert.Equal(t, "a@x.com", rec.Email)
	assert.Equal(t, "CS101", rec.CourseName)
	assert.Equal(t, 95.5, rec.Score)
	assert.True(t, rec.CreatedAt.Equal(rec.UpdatedAt))
}

func TestScoreRecordProjection(t *testing.T) {
	rec := ScoreRecord{
		ID:         42,
		Name:       "Ann",
		Email:      "a@x.com",
		CourseName: "CS101",
		Score:      80,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(rec.Report())
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.NotContains(t, fields, "id")
	assert.NotContains(t, fields, "email")
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "courseName")
	assert.Contains(t, fields, "score")
	assert.Contains(t, fields, "createdAt")
	assert.Contains(t, fields, "updatedAt")
}
