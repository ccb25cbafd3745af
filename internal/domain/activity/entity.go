package activity

import (
	"context"
	"time"
)

// Entry is one audit line. UserName is filled on reads.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
	UserName  string    `json:"user_name,omitempty"`
}

// Actions recorded by the services.
const (
	ActionRegister         = "register"
	ActionLogin            = "login"
	ActionUpdateProfile    = "update_profile"
	ActionCreateUser       = "create_user"
	ActionUpdateUser       = "update_user"
	ActionDeleteUser       = "delete_user"
	ActionCreateProperty   = "create_property"
	ActionUpdateProperty   = "update_property"
	ActionDeleteProperty   = "delete_property"
	ActionModerateProperty = "moderate_property"
	ActionSaveProperty     = "save_property"
	ActionUnsaveProperty   = "unsave_property"
	ActionUploadImage      = "upload_image"
	ActionCreateEnquiry    = "create_enquiry"
	ActionUpdateEnquiry    = "update_enquiry"
	ActionCreateAnalysis   = "create_investment_analysis"
	ActionDeleteAnalysis   = "delete_investment_analysis"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, e *Entry) error
	Latest(ctx context.Context, limit int) ([]*Entry, error)
	// PurgeBefore deletes entries older than cutoff and returns how many went.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Recorder is what the other services depend on. It never fails the caller.
type Recorder interface {
	Record(ctx context.Context, userID, action, details string)
}
