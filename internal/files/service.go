// Package files exposes per-user file storage. Every key a user can touch
// lives under users/<user id>/.
package files

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"dashboard/internal/activity"
	"dashboard/internal/storage"
)

var (
	// ErrForbidden is returned for keys outside the caller's prefix
	ErrForbidden = errors.New("file does not belong to user")
	// ErrInvalidFile is returned when an upload request fails validation
	ErrInvalidFile = errors.New("invalid file")
)

// Service handles business logic for file operations
type Service struct {
	storage  storage.Service
	activity activity.Recorder
	now      func() time.Time
}

// NewService creates a new files service. recorder may be nil.
func NewService(storage storage.Service, recorder activity.Recorder) *Service {
	if recorder == nil {
		recorder = activity.Discard
	}
	return &Service{storage: storage, activity: recorder, now: time.Now}
}

// UserPrefix is the key prefix owned by userID
func UserPrefix(userID string) string {
	return "users/" + userID + "/"
}

// ownsKey reports whether key is a clean key under the user's prefix
func ownsKey(userID, key string) bool {
	prefix := UserPrefix(userID)
	if !strings.HasPrefix(key, prefix) || len(key) == len(prefix) {
		return false
	}
	return path.Clean(key) == key
}

// ValidateFilename checks if filename is safe and valid
func ValidateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if len(filename) > MaxFilenameLength {
		return fmt.Errorf("filename too long (max %d characters)", MaxFilenameLength)
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("filename contains invalid characters")
	}
	if filepath.Ext(filename) == "" {
		return fmt.Errorf("filename must have an extension")
	}
	return nil
}

// ValidateContentType checks if content type is allowed
func ValidateContentType(contentType string) error {
	if !AllowedContentTypes[contentType] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

// GenerateUploadURL creates a presigned URL for a new file under the user's
// prefix
func (s *Service) GenerateUploadURL(ctx context.Context, userID string, req *GenerateUploadURLRequest) (*GenerateUploadURLResponse, error) {
	if err := ValidateFilename(req.Filename); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if err := ValidateContentType(req.ContentType); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if req.MaxSize > MaxFileSize {
		return nil, fmt.Errorf("%w: max file size cannot exceed %d bytes", ErrInvalidFile, MaxFileSize)
	}

	fileKey := fmt.Sprintf("%s%s-%s", UserPrefix(userID), uuid.New().String(), req.Filename)

	uploadURL, err := s.storage.GeneratePresignedUploadURL(ctx, fileKey, req.ContentType, UploadURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload URL: %w", err)
	}
	s.activity.Record(ctx, userID, activity.ActionFileUpload, "Uploaded "+req.Filename, activity.Metadata{
		"file_key":     fileKey,
		"content_type": req.ContentType,
	})

	return &GenerateUploadURLResponse{
		UploadURL: uploadURL,
		FileKey:   fileKey,
		ExpiresAt: s.now().Add(UploadURLTTL).Unix(),
	}, nil
}

// GenerateDownloadURL creates a presigned URL for one of the user's files
func (s *Service) GenerateDownloadURL(ctx context.Context, userID, fileKey string) (*GenerateDownloadURLResponse, error) {
	if !ownsKey(userID, fileKey) {
		return nil, ErrForbidden
	}

	downloadURL, err := s.storage.GeneratePresignedDownloadURL(ctx, fileKey, DownloadURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate download URL: %w", err)
	}

	return &GenerateDownloadURLResponse{
		DownloadURL: downloadURL,
		ExpiresAt:   s.now().Add(DownloadURLTTL).Unix(),
	}, nil
}

// List returns the user's files
func (s *Service) List(ctx context.Context, userID string) ([]File, error) {
	prefix := UserPrefix(userID)
	objects, err := s.storage.ListObjects(ctx, prefix)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(objects))
	for _, obj := range objects {
		files = append(files, File{
			Key:          obj.Key,
			Name:         displayName(strings.TrimPrefix(obj.Key, prefix)),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return files, nil
}

// displayName strips the uuid added at upload time
func displayName(name string) string {
	if len(name) > 37 && name[36] == '-' {
		if _, err := uuid.Parse(name[:36]); err == nil {
			return name[37:]
		}
	}
	return name
}

// DeleteFile removes one of the user's files
func (s *Service) DeleteFile(ctx context.Context, userID, fileKey string) error {
	if !ownsKey(userID, fileKey) {
		return ErrForbidden
	}
	if err := s.storage.DeleteFile(ctx, fileKey); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	s.activity.Record(ctx, userID, activity.ActionFileDelete, "Deleted "+displayName(path.Base(fileKey)), activity.Metadata{"file_key": fileKey})
	return nil
}
