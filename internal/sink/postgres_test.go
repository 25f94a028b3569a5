package sink

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostgres_InvalidNames(t *testing.T) {
	_, err := NewPostgres(nil, "public", "county roi", nil)
	assert.Error(t, err)
	_, err = NewPostgres(nil, "pub;lic", "county_roi", nil)
	assert.Error(t, err)
	_, err = NewPostgres(nil, "", "county_roi", nil)
	assert.NoError(t, err)
}

func TestPostgres_Publish(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)CREATE TABLE IF NOT EXISTS "public"\."county_roi" \(.*geometry\(MultiPolygon, 4326\)`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(`TRUNCATE "public"\."county_roi"`).
		WillReturnResult(pgxmock.NewResult("TRUNCATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"public", "county_roi"}, Columns).WillReturnResult(2)
	mock.ExpectCommit()

	s, err := NewPostgres(mock, "public", "county_roi", nil)
	require.NoError(t, err)

	n, err := s.Publish(context.Background(), testDataset())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, s.Close())
}

func TestPostgres_PublishError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnError(fmt.Errorf(`type "geometry" does not exist`))
	mock.ExpectRollback()

	s, err := NewPostgres(mock, "public", "county_roi", nil)
	require.NoError(t, err)

	_, err = s.Publish(context.Background(), testDataset())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geometry")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CloseRunsCloseFn(t *testing.T) {
	closed := false
	s, err := NewPostgres(nil, "", "county_roi", func() { closed = true })
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.True(t, closed)
}

func TestRowValues(t *testing.T) {
	ds := testDataset()
	vals, err := rowValues(ds, ds.Counties[0])
	require.NoError(t, err)
	require.Len(t, vals, len(Columns))
	assert.Equal(t, "18001", vals[0])
	assert.Equal(t, 8.0, vals[5])
	assert.Equal(t, "7d444840-9dc0-11d1-b245-5ffdce74fad2", vals[7])
	assert.Equal(t, "2024-03-01T12:00:00Z", vals[8])
	wkb, ok := vals[9].([]byte)
	require.True(t, ok)
	assert.NotEmpty(t, wkb)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn", "", "county_roi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
