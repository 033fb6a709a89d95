package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/mahinuzzaman/pulsefeed/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared in-memory database so GORM's connection pool sees the
	// same data on every connection.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AuthUser{},
		&models.Like{},
		&models.Comment{},
	))
	return db
}

func newTestUser() *models.User {
	return &models.User{
		ID:    uuid.NewString(),
		Email: gofakeit.Email(),
		Name:  gofakeit.Name(),
	}
}

func TestUserRepositoryCreateAndGet(t *testing.T) {
	repo := NewPostgresUserRepository(setupTestDB(t))

	user := newTestUser()
	require.NoError(t, repo.CreateUser(user))
	assert.False(t, user.CreatedAt.IsZero())

	got, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.Name, got.Name)
}

func TestUserRepositoryGetMissingReturnsNotFound(t *testing.T) {
	repo := NewPostgresUserRepository(setupTestDB(t))

	_, err := repo.GetUserByID(uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryGetUsersByIDs(t *testing.T) {
	repo := NewPostgresUserRepository(setupTestDB(t))

	a, b := newTestUser(), newTestUser()
	require.NoError(t, repo.CreateUser(a))
	require.NoError(t, repo.CreateUser(b))

	users, err := repo.GetUsersByIDs([]string{a.ID, b.ID, uuid.NewString()})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = repo.GetUsersByIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestLikeRepositoryUniquePerUserAndPost(t *testing.T) {
	repo := NewPostgresLikeRepository(setupTestDB(t))
	userID, postID := uuid.NewString(), uuid.NewString()

	require.NoError(t, repo.CreateLike(&models.Like{UserID: userID, PostID: postID}))

	// A second like for the same pair must be rejected by the store even if
	// the caller's existence check raced.
	err := repo.CreateLike(&models.Like{UserID: userID, PostID: postID})
	assert.Error(t, err)

	likes, err := repo.GetLikesByPostID(postID)
	require.NoError(t, err)
	assert.Len(t, likes, 1)
}

func TestLikeRepositoryDeleteMissingReturnsNotFound(t *testing.T) {
	repo := NewPostgresLikeRepository(setupTestDB(t))

	err := repo.DeleteLike(uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLikeRepositoryHasUserLikedPost(t *testing.T) {
	repo := NewPostgresLikeRepository(setupTestDB(t))
	userID, postID := uuid.NewString(), uuid.NewString()

	liked, err := repo.HasUserLikedPost(postID, userID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, repo.CreateLike(&models.Like{UserID: userID, PostID: postID}))

	liked, err = repo.HasUserLikedPost(postID, userID)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestCommentRepositoryOrderedOldestFirst(t *testing.T) {
	repo := NewPostgresCommentRepository(setupTestDB(t))
	postID := uuid.NewString()

	base := time.Now().UTC().Add(-time.Hour)
	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, repo.CreateComment(&models.Comment{
			UserID:    uuid.NewString(),
			PostID:    postID,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	comments, err := repo.GetCommentsByPostID(postID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
	assert.Equal(t, "third", comments[2].Content)
}

func TestAuthUserRepositoryLookups(t *testing.T) {
	repo := NewPostgresAuthUserRepository(setupTestDB(t))

	user := &models.AuthUser{
		ID:           uuid.NewString(),
		Email:        gofakeit.Email(),
		PasswordHash: "x",
		Username:     gofakeit.Username(),
		FullName:     gofakeit.Name(),
	}
	require.NoError(t, repo.CreateAuthUser(user))

	byEmail, err := repo.GetAuthUserByEmail(user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetAuthUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	_, err = repo.GetAuthUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
