package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/files-manager/internal/model"
)

// setupMongo connects to MONGO_TEST_URI (default localhost) and returns a
// throwaway database.  The test is skipped when no server answers.
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(2*time.Second))
	if err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("mongo unavailable: %v", err)
	}

	db := client.Database("files_manager_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestMongoUserRepo(t *testing.T) {
	db := setupMongo(t)
	repo := NewMongoUserRepo(db)
	ctx := context.Background()
	require.NoError(t, repo.EnsureIndexes(ctx))

	id, err := repo.Create(ctx, "Bob@Dylan.com", "hash")
	require.NoError(t, err)
	assert.True(t, primitive.IsValidObjectID(id))

	_, err = repo.Create(ctx, "bob@dylan.com", "other")
	assert.ErrorIs(t, err, ErrEmailExists)

	u, err := repo.GetByEmail(ctx, "bob@dylan.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "hash", u.PasswordHash)

	u, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bob@dylan.com", u.Email)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.GetByID(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrUserNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMongoFileRepo(t *testing.T) {
	db := setupMongo(t)
	repo := NewMongoFileRepo(db)
	ctx := context.Background()
	require.NoError(t, repo.EnsureIndexes(ctx))
	require.NoError(t, repo.Ping(ctx))

	owner := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()

	folder := &model.FileNode{OwnerID: owner, Name: "docs", Kind: model.KindFolder}
	folderID, err := repo.Insert(ctx, folder)
	require.NoError(t, err)

	for i := 0; i < PageSize+3; i++ {
		_, err := repo.Insert(ctx, &model.FileNode{OwnerID: owner, Name: "f", Kind: model.KindFile, ParentID: &folderID, BlobKey: uuid.NewString()})
		require.NoError(t, err)
	}

	got, err := repo.FindByID(ctx, folderID)
	require.NoError(t, err)
	assert.True(t, got.IsRoot())
	assert.False(t, got.IsPublic)

	_, err = repo.FindByIDForOwner(ctx, folderID, other)
	assert.ErrorIs(t, err, ErrFileNotFound)
	_, err = repo.FindByID(ctx, "bad")
	assert.ErrorIs(t, err, ErrInvalidID)

	root, err := repo.List(ctx, owner, nil, 0)
	require.NoError(t, err)
	require.Len(t, root, 1)
	assert.Equal(t, folderID, root[0].ID)

	p0, err := repo.List(ctx, owner, &folderID, 0)
	require.NoError(t, err)
	assert.Len(t, p0, PageSize)
	p1, err := repo.List(ctx, owner, &folderID, 1)
	require.NoError(t, err)
	assert.Len(t, p1, 3)
	p2, err := repo.List(ctx, owner, &folderID, 2)
	require.NoError(t, err)
	assert.Empty(t, p2)
	huge, err := repo.List(ctx, owner, &folderID, MaxPage+1)
	require.NoError(t, err)
	assert.Empty(t, huge)

	require.NoError(t, repo.SetPublic(ctx, folderID, other, true))
	got, _ = repo.FindByID(ctx, folderID)
	assert.False(t, got.IsPublic)
	require.NoError(t, repo.SetPublic(ctx, folderID, owner, true))
	got, _ = repo.FindByID(ctx, folderID)
	assert.True(t, got.IsPublic)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(PageSize+4), n)
}
