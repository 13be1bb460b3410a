package groups

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avolkov/articlevault/internal/crypto"
	"github.com/avolkov/articlevault/internal/database"
	"github.com/avolkov/articlevault/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, *crypto.Cipher, func()) {
	dbPath := "./test_groups_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Article{},
		&entities.AccessGroup{},
		&entities.GroupMembership{},
		&entities.GroupArticle{},
		&entities.AccessRight{},
	)
	require.NoError(t, err)

	cipher, err := crypto.NewCipherFromPassphrase("test-passphrase")
	require.NoError(t, err)

	repo := NewRepository(db, cipher)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cipher, cleanup
}

func mustCreateGroup(t *testing.T, repo *Repository, name string) string {
	t.Helper()
	group, err := repo.Create(name, false)
	require.NoError(t, err)
	return group.ID
}

func mustCreateArticle(t *testing.T, db *gorm.DB, title, body string, encrypted bool) uint {
	t.Helper()
	article := entities.Article{Title: title, Authors: "A", Body: body, Encrypted: encrypted}
	require.NoError(t, db.Create(&article).Error)
	return article.ID
}

func TestRepository_Create(t *testing.T) {
	repo, _, _, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("assigns a fresh opaque id", func(t *testing.T) {
		group, err := repo.Create("CSE360", false)
		require.NoError(t, err)
		assert.NotEmpty(t, group.ID)
		assert.Equal(t, entities.GroupTypeGeneral, group.Type)
	})

	t.Run("special flag sets the type", func(t *testing.T) {
		group, err := repo.Create("Staff Only", true)
		require.NoError(t, err)
		assert.Equal(t, entities.GroupTypeSpecial, group.Type)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		_, err := repo.Create("CSE360", true)
		assert.ErrorIs(t, err, database.ErrConflict)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := repo.Create("  ", false)
		assert.ErrorIs(t, err, database.ErrValidation)
	})
}

func TestRepository_IDByName(t *testing.T) {
	repo, _, _, cleanup := setupTestDB(t)
	defer cleanup()

	id := mustCreateGroup(t, repo, "Known")

	resolved, err := repo.IDByName("Known")
	require.NoError(t, err)
	assert.Equal(t, id, resolved)

	_, err = repo.IDByName("Unknown")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_AddUser(t *testing.T) {
	repo, _, _, cleanup := setupTestDB(t)
	defer cleanup()

	groupID := mustCreateGroup(t, repo, "G")

	t.Run("defaults to view without admin", func(t *testing.T) {
		require.NoError(t, repo.AddUser(groupID, "alice", "Viewer"))

		members, err := repo.Users(groupID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "alice", members[0].Username)
		assert.True(t, members[0].CanView)
		assert.False(t, members[0].CanAdmin)
	})

	t.Run("instructor role grants admin, case-insensitively", func(t *testing.T) {
		require.NoError(t, repo.AddUser(groupID, "bob", "instructor"))

		members, err := repo.Users(groupID)
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, "bob", members[1].Username)
		assert.True(t, members[1].CanAdmin)
	})

	t.Run("re-adding upserts the existing row", func(t *testing.T) {
		require.NoError(t, repo.AddUser(groupID, "alice", "Instructor"))

		members, err := repo.Users(groupID)
		require.NoError(t, err)
		require.Len(t, members, 2) // still one row for alice
		assert.Equal(t, "Instructor", members[0].Role)
		assert.True(t, members[0].CanAdmin)
	})

	t.Run("unknown group", func(t *testing.T) {
		err := repo.AddUser("no-such-group", "alice", "Viewer")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestRepository_RemoveUser(t *testing.T) {
	repo, _, _, cleanup := setupTestDB(t)
	defer cleanup()

	groupID := mustCreateGroup(t, repo, "G")
	require.NoError(t, repo.AddUser(groupID, "alice", "Viewer"))

	removed, err := repo.RemoveUser(groupID, "alice")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveUser(groupID, "alice")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRepository_RemoveUser_DoesNotGuardLastAdmin(t *testing.T) {
	repo, _, _, cleanup := setupTestDB(t)
	defer cleanup()

	groupID := mustCreateGroup(t, repo, "G")
	require.NoError(t, repo.AddUser(groupID, "prof", "Instructor"))

	// Membership removal bypasses the last-admin guard; only
	// UpdateAdminRights enforces it.
	removed, err := repo.RemoveUser(groupID, "prof")
	require.NoError(t, err)
	assert.True(t, removed)

	members, err := repo.Users(groupID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestRepository_UpdateViewRights(t *testing.T) {
	repo, _, _, cleanup := setupTestDB(t)
	defer cleanup()

	groupID := mustCreateGroup(t, repo, "G")
	require.NoError(t, repo.AddUser(groupID, "alice", "Viewer"))

	require.NoError(t, repo.UpdateViewRights(groupID, "alice", false))

	members, err := repo.Users(groupID)
	require.NoError(t, err)
	assert.False(t, members[0].CanView)

	err = repo.UpdateViewRights(groupID, "nobody", true)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_UpdateAdminRights(t *testing.T) {
	repo, _, _, cleanup := setupTestDB(t)
	defer cleanup()

	groupID := mustCreateGroup(t, repo, "G")
	require.NoError(t, repo.AddUser(groupID, "prof", "Instructor"))
	require.NoError(t, repo.AddUser(groupID, "alice", "Viewer"))

	t.Run("revoking the last admin fails", func(t *testing.T) {
		err := repo.UpdateAdminRights(groupID, "prof", false)
		assert.ErrorIs(t, err, database.ErrInvariant)
	})

	t.Run("with a second admin revocation succeeds", func(t *testing.T) {
		require.NoError(t, repo.UpdateAdminRights(groupID, "alice", true))
		require.NoError(t, repo.UpdateAdminRights(groupID, "prof", false))

		members, err := repo.Users(groupID)
		require.NoError(t, err)
		// alice sorts first
		assert.True(t, members[0].CanAdmin)
		assert.False(t, members[1].CanAdmin)
	})

	t.Run("granting to a non-member fails", func(t *testing.T) {
		err := repo.UpdateAdminRights(groupID, "nobody", true)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestRepository_AddArticle(t *testing.T) {
	repo, db, _, cleanup := setupTestDB(t)
	defer cleanup()

	groupID := mustCreateGroup(t, repo, "G")
	articleID := mustCreateArticle(t, db, "Linked", "body", false)

	t.Run("links an existing article", func(t *testing.T) {
		require.NoError(t, repo.AddArticle(groupID, articleID, true))

		var count int64
		require.NoError(t, db.Model(&entities.GroupArticle{}).
			Where("group_id = ? AND article_id = ?", groupID, articleID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("duplicate link is a no-op", func(t *testing.T) {
		require.NoError(t, repo.AddArticle(groupID, articleID, true))

		var count int64
		require.NoError(t, db.Model(&entities.GroupArticle{}).
			Where("group_id = ? AND article_id = ?", groupID, articleID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("missing article", func(t *testing.T) {
		err := repo.AddArticle(groupID, 9999, false)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("missing group", func(t *testing.T) {
		err := repo.AddArticle("no-such-group", articleID, false)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	repo, db, _, cleanup := setupTestDB(t)
	defer cleanup()

	groupID := mustCreateGroup(t, repo, "Doomed")
	articleID := mustCreateArticle(t, db, "Orphan-to-be", "body", false)
	require.NoError(t, repo.AddUser(groupID, "alice", "Viewer"))
	require.NoError(t, repo.AddArticle(groupID, articleID, false))

	require.NoError(t, repo.Delete(groupID))

	var memberships, links int64
	require.NoError(t, db.Model(&entities.GroupMembership{}).Where("group_id = ?", groupID).Count(&memberships).Error)
	require.NoError(t, db.Model(&entities.GroupArticle{}).Where("group_id = ?", groupID).Count(&links).Error)
	assert.Zero(t, memberships)
	assert.Zero(t, links)

	// The article itself survives group deletion
	var articleCount int64
	require.NoError(t, db.Model(&entities.Article{}).Where("id = ?", articleID).Count(&articleCount).Error)
	assert.EqualValues(t, 1, articleCount)

	err := repo.Delete(groupID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_ArticlesVisibleTo(t *testing.T) {
	repo, db, cipher, cleanup := setupTestDB(t)
	defer cleanup()

	groupID := mustCreateGroup(t, repo, "G")

	token, err := cipher.Encode("secret")
	require.NoError(t, err)
	secretID := mustCreateArticle(t, db, "Sealed", token, true)
	plainID := mustCreateArticle(t, db, "Open", "open body", false)

	require.NoError(t, repo.AddArticle(groupID, secretID, false))
	require.NoError(t, repo.AddArticle(groupID, plainID, false))
	require.NoError(t, repo.AddUser(groupID, "alice", "Viewer"))
	require.NoError(t, repo.AddUser(groupID, "mallory", "Viewer"))
	require.NoError(t, repo.UpdateViewRights(groupID, "mallory", false))

	t.Run("member with view rights sees decoded bodies", func(t *testing.T) {
		visible, err := repo.ArticlesVisibleTo(groupID, "alice")
		require.NoError(t, err)
		require.Len(t, visible, 2)
		assert.Equal(t, "Sealed", visible[0].Title)
		assert.Equal(t, "secret", visible[0].Body)
		assert.Equal(t, "open body", visible[1].Body)
	})

	t.Run("member without view rights sees No Permission", func(t *testing.T) {
		visible, err := repo.ArticlesVisibleTo(groupID, "mallory")
		require.NoError(t, err)
		require.Len(t, visible, 2)
		assert.Equal(t, NoPermissionBody, visible[0].Body)
		assert.Equal(t, NoPermissionBody, visible[1].Body)
	})

	t.Run("non-member sees nothing at all", func(t *testing.T) {
		visible, err := repo.ArticlesVisibleTo(groupID, "stranger")
		require.NoError(t, err)
		assert.Empty(t, visible)
	})
}
