package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/blogverse/backend/internal/config"
	"github.com/blogverse/backend/internal/models"
)

func startPostgres(t *testing.T) config.DBConfig {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("user_blog"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(ctr)
	})

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return config.DBConfig{
		Host:     host,
		Port:     port.Port(),
		User:     "postgres",
		Password: "postgres",
		Name:     "user_blog",
		SSLMode:  "disable",
	}
}

func TestServiceAgainstPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	svc, err := New(startPostgres(t))
	require.NoError(t, err)
	defer svc.Close()

	stats := svc.Health()
	assert.Equal(t, "up", stats["status"])
	assert.Contains(t, stats, "open_connections")

	db := svc.GetDB()

	user := models.User{Name: "alice", Gmail: "alice@gmail.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	post := models.Post{Title: "hello", Content: "world", UserID: user.ID}
	require.NoError(t, db.Create(&post).Error)

	// the composite unique index must reject a second identical like, and
	// the violation must surface as gorm's translated duplicate-key error
	require.NoError(t, db.Create(&models.Like{UserID: user.ID, PostID: post.ID}).Error)
	err = db.Create(&models.Like{UserID: user.ID, PostID: post.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	other := models.User{Name: "bob", Gmail: "bob@gmail.com", Password: "x"}
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: other.ID, FollowingID: user.ID}).Error)
	err = db.Create(&models.Follow{FollowerID: other.ID, FollowingID: user.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCloseReportsDown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	svc, err := New(startPostgres(t))
	require.NoError(t, err)

	require.NoError(t, svc.Close())
	stats := svc.Health()
	assert.Equal(t, "down", stats["status"])
}
