package services

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countStartupsBySlug = `SELECT count(*) FROM "startups" WHERE slug = $1`

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestUniqueSlug(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewStartupService(db)

	mock.ExpectQuery(regexp.QuoteMeta(countStartupsBySlug)).
		WithArgs("green-harvest-lk").WillReturnRows(countRows(0))

	got, err := svc.uniqueSlug("Green Harvest LK")
	require.NoError(t, err)
	assert.Equal(t, "green-harvest-lk", got)
}

func TestUniqueSlug_AppendsSuffixOnCollision(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewStartupService(db)

	mock.ExpectQuery(regexp.QuoteMeta(countStartupsBySlug)).
		WithArgs("green-harvest-lk").WillReturnRows(countRows(1))
	mock.ExpectQuery(regexp.QuoteMeta(countStartupsBySlug)).
		WithArgs("green-harvest-lk-2").WillReturnRows(countRows(1))
	mock.ExpectQuery(regexp.QuoteMeta(countStartupsBySlug)).
		WithArgs("green-harvest-lk-3").WillReturnRows(countRows(0))

	got, err := svc.uniqueSlug("Green Harvest LK")
	require.NoError(t, err)
	assert.Equal(t, "green-harvest-lk-3", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
