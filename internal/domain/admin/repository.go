// Package admin defines the interfaces for dashboard operator entities:
// admin accounts, the singleton video configuration, and per-admin chart
// layout preferences.
package admin

import "time"

// User is a dashboard operator account.
type User struct {
	ID                     int64     `json:"id"`
	Username               string    `json:"username"`
	PasswordHash           string    `json:"-"` // Never serialize password hash
	RequiresPasswordChange bool      `json:"requiresPasswordChange"`
	CreatedAt              time.Time `json:"createdAt"`
}

// VideoConfig is the landing page video setup. At most one row is active at
// any time; activation deactivates all prior rows inside one transaction.
type VideoConfig struct {
	ID                 int64     `json:"id"`
	VideoURL           string    `json:"video_url"`
	VideoType          string    `json:"video_type"`
	ButtonDelaySeconds int       `json:"button_delay_seconds"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

// ChartConfig stores an admin's saved dashboard chart layout as raw JSON.
type ChartConfig struct {
	Username  string    `json:"username"`
	Configs   string    `json:"configs"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRepository defines the operations for persisting admin accounts.
type UserRepository interface {
	FindByUsername(username string) (*User, error)
	Create(username, passwordHash string, requiresPasswordChange bool) error
	UpdatePassword(username, passwordHash string) error
	Count() (int, error)
}

// VideoRepository defines the operations for the video configuration.
type VideoRepository interface {
	FindActive() (*VideoConfig, error)
	FindLatest() (*VideoConfig, error)
	// Activate deactivates every existing row and inserts a new active one,
	// atomically. It returns the inserted row.
	Activate(videoURL, videoType string, buttonDelaySeconds int) (*VideoConfig, error)
	Delete(id int64) error
	CountActive() (int, error)
}

// ChartConfigRepository defines the operations for chart layout preferences.
type ChartConfigRepository interface {
	Upsert(username, configs string) error
	FindByUsername(username string) (*ChartConfig, error)
}
