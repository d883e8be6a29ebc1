package folders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/database/databasetest"
)

func TestRepository(t *testing.T) {
	pool := databasetest.NewPool(t)
	databasetest.InsertUser(t, pool, "u1", "u1@example.com")
	databasetest.InsertUser(t, pool, "u2", "u2@example.com")
	repo := NewRepository(pool)
	ctx := context.Background()

	root, err := repo.CreateFolder(ctx, "u1", "Root", nil)
	require.NoError(t, err)
	assert.Nil(t, root.ParentID)

	child, err := repo.CreateFolder(ctx, "u1", "Child", &root.ID)
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)

	t.Run("OwnerScoping", func(t *testing.T) {
		_, err := repo.GetFolder(ctx, "u2", root.ID)
		assert.ErrorIs(t, err, ErrFolderNotFound)

		_, err = repo.CreateFolder(ctx, "u2", "Sneaky", &root.ID)
		assert.ErrorIs(t, err, ErrInvalidParent)

		_, err = repo.CreateNote(ctx, "u2", root.ID, "title", "body")
		assert.ErrorIs(t, err, ErrFolderNotFound)

		assert.ErrorIs(t, repo.DeleteFolder(ctx, "u2", root.ID), ErrFolderNotFound)

		folders, err := repo.ListFolders(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, folders)
	})

	t.Run("MoveRejectsCycles", func(t *testing.T) {
		_, err := repo.MoveFolder(ctx, "u1", root.ID, &child.ID)
		assert.ErrorIs(t, err, ErrInvalidParent)

		_, err = repo.MoveFolder(ctx, "u1", root.ID, &root.ID)
		assert.ErrorIs(t, err, ErrInvalidParent)

		moved, err := repo.MoveFolder(ctx, "u1", child.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, moved.ParentID)

		moved, err = repo.MoveFolder(ctx, "u1", child.ID, &root.ID)
		require.NoError(t, err)
		assert.Equal(t, root.ID, *moved.ParentID)
	})

	t.Run("Rename", func(t *testing.T) {
		f, err := repo.RenameFolder(ctx, "u1", child.ID, "Renamed")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", f.Name)

		_, err = repo.RenameFolder(ctx, "u2", child.ID, "Nope")
		assert.ErrorIs(t, err, ErrFolderNotFound)
	})

	t.Run("Notes", func(t *testing.T) {
		note, err := repo.CreateNote(ctx, "u1", child.ID, "Todo", "milk")
		require.NoError(t, err)

		notes, err := repo.ListNotes(ctx, "u1", child.ID)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "Todo", notes[0].Title)

		body := "milk, eggs"
		updated, err := repo.UpdateNote(ctx, "u1", note.ID, nil, &body)
		require.NoError(t, err)
		assert.Equal(t, "Todo", updated.Title)
		assert.Equal(t, "milk, eggs", updated.Body)

		_, err = repo.GetNote(ctx, "u2", note.ID)
		assert.ErrorIs(t, err, ErrNoteNotFound)

		require.NoError(t, repo.DeleteNote(ctx, "u1", note.ID))
		assert.ErrorIs(t, repo.DeleteNote(ctx, "u1", note.ID), ErrNoteNotFound)
	})

	t.Run("DeleteCascades", func(t *testing.T) {
		note, err := repo.CreateNote(ctx, "u1", child.ID, "Doomed", "")
		require.NoError(t, err)

		require.NoError(t, repo.DeleteFolder(ctx, "u1", root.ID))

		_, err = repo.GetFolder(ctx, "u1", child.ID)
		assert.ErrorIs(t, err, ErrFolderNotFound)
		_, err = repo.GetNote(ctx, "u1", note.ID)
		assert.ErrorIs(t, err, ErrNoteNotFound)
	})
}
