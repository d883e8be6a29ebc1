// Package folders implements the dashboard's folder tree and the notes kept
// in it.
package folders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"dashboard/internal/activity"
)

const treeCacheTTL = 5 * time.Minute

// Service handles folder and note business logic. Folder trees are cached in
// Redis when a client is given.
type Service struct {
	repo     *Repository
	cache    *redis.Client
	activity activity.Recorder
	logger   *slog.Logger
}

// NewService creates a new folders service. cache and recorder may be nil.
func NewService(repo *Repository, cache *redis.Client, recorder activity.Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = activity.Discard
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		activity: recorder,
		logger:   logger.With("component", "folders"),
	}
}

func treeCacheKey(userID string) string {
	return fmt.Sprintf("folders:tree:%s", userID)
}

// Tree returns the user's folders as a forest of root nodes
func (s *Service) Tree(ctx context.Context, userID string) ([]*TreeNode, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, treeCacheKey(userID)).Bytes()
		if err == nil {
			var tree []*TreeNode
			if err := json.Unmarshal(cached, &tree); err == nil {
				return tree, nil
			}
		}
	}

	folders, err := s.repo.ListFolders(ctx, userID)
	if err != nil {
		return nil, err
	}
	tree := BuildTree(folders)

	if s.cache != nil {
		data, _ := json.Marshal(tree)
		if err := s.cache.Set(ctx, treeCacheKey(userID), data, treeCacheTTL).Err(); err != nil {
			s.logger.Warn("Failed to cache folder tree", "user_id", userID, "error", err)
		}
	}
	return tree, nil
}

func (s *Service) invalidateTree(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, treeCacheKey(userID)).Err(); err != nil {
		s.logger.Warn("Failed to invalidate folder tree", "user_id", userID, "error", err)
	}
}

// BuildTree nests folders under their parents. Folders whose parent is
// missing are treated as roots. Siblings keep the input order.
func BuildTree(folders []Folder) []*TreeNode {
	nodes := make(map[string]*TreeNode, len(folders))
	for _, f := range folders {
		nodes[f.ID] = &TreeNode{Folder: f, Children: []*TreeNode{}}
	}

	roots := []*TreeNode{}
	for _, f := range folders {
		node := nodes[f.ID]
		if f.ParentID != nil {
			if parent, ok := nodes[*f.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// ListFolders returns the user's folders as a flat list sorted by name
func (s *Service) ListFolders(ctx context.Context, userID string) ([]Folder, error) {
	return s.repo.ListFolders(ctx, userID)
}

// CreateFolder creates a folder and invalidates the cached tree
func (s *Service) CreateFolder(ctx context.Context, userID, name string, parentID *string) (*Folder, error) {
	f, err := s.repo.CreateFolder(ctx, userID, name, parentID)
	if err != nil {
		return nil, err
	}
	s.invalidateTree(ctx, userID)
	s.activity.Record(ctx, userID, activity.ActionFolderCreate, "Created folder "+f.Name, activity.Metadata{"folder_id": f.ID})
	return f, nil
}

// GetFolder retrieves a single folder
func (s *Service) GetFolder(ctx context.Context, userID, id string) (*Folder, error) {
	return s.repo.GetFolder(ctx, userID, id)
}

// UpdateFolder renames and/or moves a folder in one transaction. An empty
// parent id moves the folder to the root.
func (s *Service) UpdateFolder(ctx context.Context, userID, id string, name, parentID *string) (*Folder, error) {
	var f *Folder
	err := s.repo.InTx(ctx, func(repo *Repository) error {
		if err := repo.LockFolders(ctx, userID); err != nil {
			return err
		}

		var err error
		if f, err = repo.GetFolder(ctx, userID, id); err != nil {
			return err
		}
		if name != nil {
			if f, err = repo.RenameFolder(ctx, userID, id, *name); err != nil {
				return err
			}
		}
		if parentID != nil {
			var target *string
			if *parentID != "" {
				target = parentID
			}
			if f, err = repo.MoveFolder(ctx, userID, id, target); err != nil {
				return err
			}
		}
		return nil
	})
	if name != nil || parentID != nil {
		s.invalidateTree(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, userID, activity.ActionFolderUpdate, "Updated folder "+f.Name, activity.Metadata{"folder_id": f.ID})
	return f, nil
}

// DeleteFolder deletes a folder and everything below it
func (s *Service) DeleteFolder(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteFolder(ctx, userID, id); err != nil {
		return err
	}
	s.invalidateTree(ctx, userID)
	s.activity.Record(ctx, userID, activity.ActionFolderDelete, "Deleted folder", activity.Metadata{"folder_id": id})
	return nil
}

// CreateNote adds a note to a folder
func (s *Service) CreateNote(ctx context.Context, userID, folderID, title, body string) (*Note, error) {
	n, err := s.repo.CreateNote(ctx, userID, folderID, title, body)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, userID, activity.ActionNoteCreate, "Created note "+n.Title, activity.Metadata{
		"note_id":   n.ID,
		"folder_id": folderID,
	})
	return n, nil
}

// ListNotes lists the notes of a folder
func (s *Service) ListNotes(ctx context.Context, userID, folderID string) ([]Note, error) {
	return s.repo.ListNotes(ctx, userID, folderID)
}

// GetNote retrieves a single note
func (s *Service) GetNote(ctx context.Context, userID, id string) (*Note, error) {
	return s.repo.GetNote(ctx, userID, id)
}

// UpdateNote changes a note's title and/or body
func (s *Service) UpdateNote(ctx context.Context, userID, id string, title, body *string) (*Note, error) {
	n, err := s.repo.UpdateNote(ctx, userID, id, title, body)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, userID, activity.ActionNoteUpdate, "Updated note "+n.Title, activity.Metadata{"note_id": id})
	return n, nil
}

// DeleteNote removes a note
func (s *Service) DeleteNote(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteNote(ctx, userID, id); err != nil {
		return err
	}
	s.activity.Record(ctx, userID, activity.ActionNoteDelete, "Deleted note", activity.Metadata{"note_id": id})
	return nil
}
