// Package analytics defines the interfaces for accessing interaction logs
// (events, page views) and lead registrations.
package analytics

import "time"

// Event is one append-only interaction log row keyed by visitor and session.
type Event struct {
	ID        int64     `json:"id"`
	VisitorID string    `json:"visitor_id"`
	EventType string    `json:"event_type"`
	EventData *string   `json:"event_data"` // JSON payload as submitted
	PageURL   *string   `json:"page_url"`
	SessionID *string   `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// EventWithVisitor joins an event with geo columns from its visitor row for
// the admin dashboard listing.
type EventWithVisitor struct {
	Event
	IPAddress *string `json:"ip_address"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
}

// PageView is one append-only page view record.
type PageView struct {
	ID          int64     `json:"id"`
	VisitorID   string    `json:"visitor_id"`
	PageURL     *string   `json:"page_url"`
	PageTitle   *string   `json:"page_title"`
	SessionID   *string   `json:"session_id"`
	TimeSpent   int       `json:"time_spent"`
	ScrollDepth int       `json:"scroll_depth"`
	ViewedAt    time.Time `json:"viewed_at"`
}

// Registration is a lead's submitted contact form tied to a visitor.
type Registration struct {
	ID               int64     `json:"id"`
	VisitorID        string    `json:"visitor_id"`
	Email            *string   `json:"email"`
	Name             *string   `json:"name"`
	Phone            *string   `json:"phone"`
	RegistrationData *string   `json:"registration_data"` // JSON payload
	RegisteredAt     time.Time `json:"registered_at"`
}

// RegistrationWithVisitor joins a registration with visitor columns for the
// admin dashboard listing and the Word report.
type RegistrationWithVisitor struct {
	Registration
	IPAddress  *string `json:"ip_address"`
	City       *string `json:"city"`
	Country    *string `json:"country"`
	DeviceType *string `json:"device_type"`
}

// EventRepository defines the contract for storing and listing events.
type EventRepository interface {
	Create(event *Event) error
	FindByVisitorID(visitorID string) ([]*Event, error)
	ListRecent(limit int) ([]*EventWithVisitor, error)
	Count() (int, error)
	DeleteByVisitorID(visitorID string) error
}

// PageViewRepository defines the contract for storing page views.
type PageViewRepository interface {
	Create(view *PageView) error
	FindByVisitorID(visitorID string) ([]*PageView, error)
	Count() (int, error)
	DeleteByVisitorID(visitorID string) error
}

// RegistrationRepository defines the contract for storing registrations.
type RegistrationRepository interface {
	Create(registration *Registration) error
	FindLatestByVisitorID(visitorID string) (*Registration, error)
	List(limit, offset int) ([]*RegistrationWithVisitor, error)
	Count() (int, error)
	DeleteByVisitorID(visitorID string) error
}
