package repomanager

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway PostgreSQL container and returns its DSN.
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "daybook",
				"POSTGRES_PASSWORD": "daybook",
				"POSTGRES_DB":       "daybook",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://daybook:daybook@%s:%s/daybook?sslmode=disable", host, port.Port())
}

func TestPostgres_Integration(t *testing.T) {
	if os.Getenv("DAYBOOK_PG_INTEGRATION") != "1" {
		t.Skip("set DAYBOOK_PG_INTEGRATION=1 to run against a real PostgreSQL")
	}
	ctx := context.Background()

	db, err := Open(ctx, startPostgres(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := NewPostgresRepositoryManager()
	require.NoError(t, m.RunMigrations(ctx, db))

	u, err := m.Users(db).Create(ctx, &models.User{UserName: "alice", Salt: []byte("s"), Verifier: []byte("v")})
	require.NoError(t, err)
	_, err = m.Users(db).Create(ctx, &models.User{UserName: "alice", Salt: []byte("s"), Verifier: []byte("v")})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	repo := m.Entries(db)
	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	first := &models.Entry{UserID: u.ID, Date: "2024-03-01", Storyworthy: "a", CreatedAt: t0, ModifiedAt: t0}
	require.NoError(t, repo.Upsert(ctx, first))

	second := &models.Entry{UserID: u.ID, Date: "2024-03-01", Storyworthy: "b", CreatedAt: t0, ModifiedAt: t0.Add(time.Hour)}
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	all, err := repo.Query(ctx, u.ID, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].Storyworthy)

	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	newer, err := repo.Query(ctx, u.ID, second.UpdatedAt)
	require.NoError(t, err)
	assert.Empty(t, newer)

	// a late write carrying an old edit time is still seen by later pulls
	late := &models.Entry{UserID: u.ID, Date: "2024-02-29", Storyworthy: "late", CreatedAt: t0, ModifiedAt: t0.Add(-24 * time.Hour)}
	require.NoError(t, repo.Upsert(ctx, late))
	newer, err = repo.Query(ctx, u.ID, second.UpdatedAt)
	require.NoError(t, err)
	require.Len(t, newer, 1)
	assert.Equal(t, "2024-02-29", newer[0].Date)

	require.NoError(t, repo.Delete(ctx, u.ID, "2024-03-01"))
	require.ErrorIs(t, repo.Delete(ctx, u.ID, "2024-03-01"), common.ErrorNotFound)
}
