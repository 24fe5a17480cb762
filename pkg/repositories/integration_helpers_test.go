//go:build integration

package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/DevWeb31/phuong-long-sub002/pkg/database"
	"github.com/DevWeb31/phuong-long-sub002/pkg/testhelpers"
)

// The container and migrations are shared across the whole test run, so
// every test creates its own profiles and clubs with fresh UUIDs instead
// of assuming an empty database.

func getIntegrationDB(t *testing.T) *database.DB {
	t.Helper()
	return testhelpers.GetTestDB(t).DB
}

func createTestProfile(t *testing.T, db *database.DB) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO profiles (id, email, full_name) VALUES ($1, $2, $3)`,
		id, fmt.Sprintf("%s@example.test", id), "Integration Test User")
	require.NoError(t, err)
	return id
}

func createTestClub(t *testing.T, db *database.DB) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO clubs (id, name, city) VALUES ($1, $2, $3)`,
		id, fmt.Sprintf("Club %s", id), "Toulouse")
	require.NoError(t, err)
	return id
}
