package folders

import "time"

// Folder is a node in a user's folder tree
type Folder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ParentID  *string   `json:"parent_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note is a text document stored in a folder
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FolderID  string    `json:"folder_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TreeNode is a folder with its children, used to render the file explorer
type TreeNode struct {
	Folder
	Children []*TreeNode `json:"children"`
}

// CreateFolderRequest represents the request body for creating a folder
type CreateFolderRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	ParentID *string `json:"parent_id,omitempty"`
}

// UpdateFolderRequest renames and/or moves a folder. An empty parent_id
// moves the folder to the root.
type UpdateFolderRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	ParentID *string `json:"parent_id,omitempty"`
}

// CreateNoteRequest represents the request body for creating a note
type CreateNoteRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Body  string `json:"body"`
}

// UpdateNoteRequest represents the request body for updating a note
type UpdateNoteRequest struct {
	Title *string `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	Body  *string `json:"body,omitempty"`
}

// Response is the standard response wrapper
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
