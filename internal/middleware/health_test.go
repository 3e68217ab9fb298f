package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHealth(t *testing.T, checkers map[string]HealthChecker) (int, DependencyReport) {
	t.Helper()
	rec := httptest.NewRecorder()
	HealthHandler(checkers).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var report DependencyReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	return rec.Code, report
}

func TestHealthHandler(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()

	code, report := serveHealth(t, map[string]HealthChecker{
		"database": &DatabaseHealthChecker{DB: db},
		"storage":  HealthCheckerFunc(func(context.Context) error { return nil }),
	})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", report.Status)
	assert.True(t, report.Dependencies["database"].Healthy)
	assert.True(t, report.Dependencies["storage"].Healthy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthHandler_NoDependencies(t *testing.T) {
	code, report := serveHealth(t, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", report.Status)
	assert.Empty(t, report.Dependencies)
}

func TestHealthHandler_Unhealthy(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	code, report := serveHealth(t, map[string]HealthChecker{
		"database": &DatabaseHealthChecker{DB: db},
		"storage":  HealthCheckerFunc(func(context.Context) error { return errors.New("bucket missing") }),
	})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", report.Status)
	assert.Equal(t, "connection refused", report.Dependencies["database"].Error)
	assert.Equal(t, "bucket missing", report.Dependencies["storage"].Error)
}
