package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSONRoundTrip(t *testing.T) {
	w := WorkExperience{StartDate: day(2022, 1, 1), EndDate: ptr(day(2023, 12, 31))}
	b, err := json.Marshal(w)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"start_date":"2022-01-01"`)
	assert.Contains(t, string(b), `"end_date":"2023-12-31"`)

	var decoded WorkExperience
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "2022-01-01", decoded.StartDate.String())
	require.NotNil(t, decoded.EndDate)
	assert.Equal(t, "2023-12-31", decoded.EndDate.String())
}

func TestDate_NullAndEmpty(t *testing.T) {
	var w WorkExperience
	b, err := json.Marshal(w)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"start_date":null`)
	assert.Contains(t, string(b), `"end_date":null`)

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
	assert.Error(t, json.Unmarshal([]byte(`"01/02/2024"`), &d))
}

func TestParseOptionalDate(t *testing.T) {
	d, err := ParseOptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseOptionalDate("2024-02-29")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.February, d.Month())

	_, err = ParseOptionalDate("2023-02-29")
	assert.Error(t, err)
}

func TestDate_ScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	ts := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, d.Scan(ts))
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, ts, v)

	assert.Error(t, d.Scan("2020-05-01"))

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestStringArray_ScanAndValue(t *testing.T) {
	var a StringArray
	require.NoError(t, a.Scan([]byte(`["Go","Postgres"]`)))
	assert.Equal(t, StringArray{"Go", "Postgres"}, a)

	require.NoError(t, a.Scan(`["Redis"]`))
	assert.Equal(t, StringArray{"Redis"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Equal(t, StringArray{}, a)

	assert.Error(t, a.Scan(42))

	v, err := StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestUniqueViolation(t *testing.T) {
	tests := []struct {
		constraint string
		field      string
	}{
		{"users_username_key", "username"},
		{"users_email_key", "email"},
		{"idx_resumes_one_default", "default resume"},
		{"something_else", "record"},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: "23505", ConstraintName: tt.constraint}
			err := uniqueViolation(fmt.Errorf("insert: %w", pgErr))

			var uv *UniqueViolationError
			require.ErrorAs(t, err, &uv)
			assert.Equal(t, tt.field, uv.Field)
			assert.Equal(t, tt.field+" already exists", uv.Error())
			assert.True(t, errors.Is(err, pgErr))
		})
	}
}

func TestUniqueViolation_PassesOtherErrors(t *testing.T) {
	other := &pgconn.PgError{Code: "23503"}
	assert.Same(t, other, uniqueViolation(other))

	plain := errors.New("boom")
	assert.Equal(t, plain, uniqueViolation(plain))
}

func TestAffected(t *testing.T) {
	assert.ErrorIs(t, affected(pgconn.NewCommandTag("DELETE 0"), nil, "delete"), ErrNotFound)
	assert.NoError(t, affected(pgconn.NewCommandTag("DELETE 1"), nil, "delete"))

	err := affected(pgconn.CommandTag{}, errors.New("conn reset"), "delete skill")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete skill")
}

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"users", "user_sessions", "work_experiences", "education_backgrounds", "skills", "projects", "resumes"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.Contains(t, schemaSQL, "idx_resumes_one_default")
}
