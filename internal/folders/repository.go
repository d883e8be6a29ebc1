package folders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"dashboard/internal/database"
)

var (
	ErrFolderNotFound = errors.New("folder not found")
	ErrNoteNotFound   = errors.New("note not found")
	ErrInvalidParent  = errors.New("invalid parent folder")
)

// Repository handles folder and note persistence. Every query is scoped to
// the owning user, so another user's rows read as not found.
type Repository struct {
	db database.Querier
}

// NewRepository creates a new folders repository
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// InTx runs fn with a repository bound to a single transaction. When the
// repository was built on a bare Querier fn runs on it directly.
func (r *Repository) InTx(ctx context.Context, fn func(repo *Repository) error) error {
	svc, ok := r.db.(database.Service)
	if !ok {
		return fn(r)
	}
	return svc.WithTx(ctx, func(tx pgx.Tx) error {
		return fn(NewRepository(tx))
	})
}

// LockFolders serializes folder tree changes of one user until the
// surrounding transaction ends. Outside a transaction it has no effect.
func (r *Repository) LockFolders(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		return fmt.Errorf("failed to lock folders: %w", err)
	}
	return nil
}

const folderColumns = `id, user_id, parent_id, name, created_at, updated_at`

func scanFolder(row pgx.Row) (*Folder, error) {
	f := &Folder{}
	err := row.Scan(&f.ID, &f.UserID, &f.ParentID, &f.Name, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFolderNotFound
	}
	return f, err
}

// CreateFolder inserts a folder under parentID, or at the root when nil
func (r *Repository) CreateFolder(ctx context.Context, userID, name string, parentID *string) (*Folder, error) {
	if parentID != nil {
		if _, err := r.GetFolder(ctx, userID, *parentID); err != nil {
			if errors.Is(err, ErrFolderNotFound) {
				return nil, ErrInvalidParent
			}
			return nil, err
		}
	}

	f, err := scanFolder(r.db.QueryRow(ctx, `
		INSERT INTO folders (id, user_id, parent_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING `+folderColumns,
		uuid.New().String(), userID, parentID, name,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return f, nil
}

// GetFolder retrieves a single folder
func (r *Repository) GetFolder(ctx context.Context, userID, id string) (*Folder, error) {
	f, err := scanFolder(r.db.QueryRow(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil && !errors.Is(err, ErrFolderNotFound) {
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}
	return f, err
}

// ListFolders returns all folders of a user ordered by name
func (r *Repository) ListFolders(ctx context.Context, userID string) ([]Folder, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE user_id = $1 ORDER BY name, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	folders := []Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, *f)
	}
	return folders, rows.Err()
}

// RenameFolder changes a folder's name
func (r *Repository) RenameFolder(ctx context.Context, userID, id, name string) (*Folder, error) {
	f, err := scanFolder(r.db.QueryRow(ctx, `
		UPDATE folders SET name = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+folderColumns,
		id, userID, name,
	))
	if err != nil && !errors.Is(err, ErrFolderNotFound) {
		return nil, fmt.Errorf("failed to rename folder: %w", err)
	}
	return f, err
}

// MoveFolder reparents a folder. A nil parentID moves it to the root. Moving
// a folder into itself or one of its descendants is rejected.
func (r *Repository) MoveFolder(ctx context.Context, userID, id string, parentID *string) (*Folder, error) {
	if parentID != nil {
		if *parentID == id {
			return nil, ErrInvalidParent
		}
		var cycle bool
		err := r.db.QueryRow(ctx, `
			WITH RECURSIVE ancestors AS (
				SELECT id, parent_id FROM folders WHERE id = $1 AND user_id = $3
				UNION ALL
				SELECT f.id, f.parent_id FROM folders f
				JOIN ancestors a ON f.id = a.parent_id
			)
			SELECT COUNT(*) > 0 FROM ancestors WHERE id = $2`,
			*parentID, id, userID,
		).Scan(&cycle)
		if err != nil {
			return nil, fmt.Errorf("failed to check folder ancestry: %w", err)
		}
		if cycle {
			return nil, ErrInvalidParent
		}
		if _, err := r.GetFolder(ctx, userID, *parentID); err != nil {
			if errors.Is(err, ErrFolderNotFound) {
				return nil, ErrInvalidParent
			}
			return nil, err
		}
	}

	f, err := scanFolder(r.db.QueryRow(ctx, `
		UPDATE folders SET parent_id = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+folderColumns,
		id, userID, parentID,
	))
	if err != nil && !errors.Is(err, ErrFolderNotFound) {
		return nil, fmt.Errorf("failed to move folder: %w", err)
	}
	return f, err
}

// DeleteFolder removes a folder with its subfolders and notes
func (r *Repository) DeleteFolder(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM folders WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFolderNotFound
	}
	return nil
}

const noteColumns = `id, user_id, folder_id, title, body, created_at, updated_at`

func scanNote(row pgx.Row) (*Note, error) {
	n := &Note{}
	err := row.Scan(&n.ID, &n.UserID, &n.FolderID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	return n, err
}

// CreateNote inserts a note into one of the user's folders
func (r *Repository) CreateNote(ctx context.Context, userID, folderID, title, body string) (*Note, error) {
	if _, err := r.GetFolder(ctx, userID, folderID); err != nil {
		return nil, err
	}

	n, err := scanNote(r.db.QueryRow(ctx, `
		INSERT INTO notes (id, user_id, folder_id, title, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING `+noteColumns,
		uuid.New().String(), userID, folderID, title, body,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return n, nil
}

// ListNotes returns the notes in a folder, newest first
func (r *Repository) ListNotes(ctx context.Context, userID, folderID string) ([]Note, error) {
	if _, err := r.GetFolder(ctx, userID, folderID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE folder_id = $1 AND user_id = $2
		ORDER BY updated_at DESC`,
		folderID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

// GetNote retrieves a single note
func (r *Repository) GetNote(ctx context.Context, userID, id string) (*Note, error) {
	n, err := scanNote(r.db.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil && !errors.Is(err, ErrNoteNotFound) {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return n, err
}

// UpdateNote applies the non-nil fields
func (r *Repository) UpdateNote(ctx context.Context, userID, id string, title, body *string) (*Note, error) {
	n, err := scanNote(r.db.QueryRow(ctx, `
		UPDATE notes
		SET title = COALESCE($3, title),
		    body = COALESCE($4, body),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+noteColumns,
		id, userID, title, body,
	))
	if err != nil && !errors.Is(err, ErrNoteNotFound) {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return n, err
}

// DeleteNote removes a note
func (r *Repository) DeleteNote(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}
