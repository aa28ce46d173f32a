package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-video-tube/internal/middlewares"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupSubscriptionPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	schema := `
	CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

	CREATE TABLE IF NOT EXISTS users (
		user_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		username VARCHAR(50) NOT NULL UNIQUE,
		email VARCHAR(100) NOT NULL UNIQUE,
		full_name VARCHAR(100) NOT NULL,
		avatar_url VARCHAR(512) NOT NULL,
		cover_image_url VARCHAR(512) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		refresh_token VARCHAR(512),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS subscriptions (
		subscription_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		subscriber_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		channel_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE (subscriber_id, channel_id)
	);
	`
	_, err = db.Exec(schema)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func mustSaveUser(t *testing.T, db *sqlx.DB, username string) uuid.UUID {
	t.Helper()

	repo := NewUserWriteRepository(db)
	userID, err := repo.Save(context.Background(), username, username+"@example.com", username, "https://m/"+username+".png", "", "hash")
	assert.NoError(t, err)
	return userID
}

func countSubscriptions(t *testing.T, db *sqlx.DB) int {
	t.Helper()

	var count int
	err := db.Get(&count, "SELECT COUNT(*) FROM subscriptions")
	assert.NoError(t, err)
	return count
}

func TestSubscriptionWriteRepository_Save(t *testing.T) {
	db, teardown := setupSubscriptionPostgresContainer(t)
	defer teardown()

	repo := NewSubscriptionWriteRepository(db)
	ctx := context.Background()

	subscriberID := mustSaveUser(t, db, "subscriber")
	channelID := mustSaveUser(t, db, "channel")

	err := repo.Save(ctx, subscriberID, channelID)
	assert.NoError(t, err)
	assert.Equal(t, 1, countSubscriptions(t, db))

	// saving the same edge again is a no-op
	err = repo.Save(ctx, subscriberID, channelID)
	assert.NoError(t, err)
	assert.Equal(t, 1, countSubscriptions(t, db))
}

func TestSubscriptionWriteRepository_Delete(t *testing.T) {
	db, teardown := setupSubscriptionPostgresContainer(t)
	defer teardown()

	repo := NewSubscriptionWriteRepository(db)
	ctx := context.Background()

	subscriberID := mustSaveUser(t, db, "subscriber")
	channelID := mustSaveUser(t, db, "channel")

	err := repo.Save(ctx, subscriberID, channelID)
	assert.NoError(t, err)

	err = repo.Delete(ctx, subscriberID, channelID)
	assert.NoError(t, err)
	assert.Equal(t, 0, countSubscriptions(t, db))

	// deleting a missing edge is not an error
	err = repo.Delete(ctx, subscriberID, channelID)
	assert.NoError(t, err)
}

func TestSubscriptionWriteRepository_UsesContextTransaction(t *testing.T) {
	db, teardown := setupSubscriptionPostgresContainer(t)
	defer teardown()

	repo := NewSubscriptionWriteRepository(db)

	subscriberID := mustSaveUser(t, db, "subscriber")
	channelID := mustSaveUser(t, db, "channel")

	tx, err := db.Beginx()
	assert.NoError(t, err)

	ctx := middlewares.SetTxToContext(context.Background(), tx)

	err = repo.Save(ctx, subscriberID, channelID)
	assert.NoError(t, err)

	// rolled back writes must not be visible
	assert.NoError(t, tx.Rollback())
	assert.Equal(t, 0, countSubscriptions(t, db))
}
