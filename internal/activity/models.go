package activity

import "time"

// Action names a recorded user action
type Action string

const (
	ActionSignUp        Action = "sign_up"
	ActionSignIn        Action = "sign_in"
	ActionSignOut       Action = "sign_out"
	ActionSignOutAll    Action = "sign_out_all"
	ActionAccountUpdate Action = "account_update"
	ActionFolderCreate  Action = "folder_create"
	ActionFolderUpdate  Action = "folder_update"
	ActionFolderDelete  Action = "folder_delete"
	ActionNoteCreate    Action = "note_create"
	ActionNoteUpdate    Action = "note_update"
	ActionNoteDelete    Action = "note_delete"
	ActionFileUpload    Action = "file_upload"
	ActionFileDelete    Action = "file_delete"
)

// PageSize is the number of entries per page
const PageSize = 10

// Metadata holds action specific values such as the affected object id
type Metadata map[string]any

// Log is one recorded action
type Log struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Action    Action    `json:"action"`
	Details   string    `json:"details"`
	Metadata  Metadata  `json:"metadata"`
	Timestamp time.Time `json:"timestamp"`
}

// Summary aggregates a user's whole log, independent of any search
type Summary struct {
	Total         int        `json:"total"`
	UniqueActions int        `json:"unique_actions"`
	Today         int        `json:"today"`
	Latest        *time.Time `json:"latest,omitempty"`
}

// Page is one page of a user's log, newest first
type Page struct {
	Logs       []Log   `json:"logs"`
	Query      string  `json:"query,omitempty"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Summary    Summary `json:"summary"`
}

// Response is the standard response wrapper
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
