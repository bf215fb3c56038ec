// Package visitor defines the interfaces for accessing visitor, signal, and
// inferred demographic entities. These repositories abstract the data
// persistence details, ensuring the core application is clean and decoupled
// from the database.
package visitor

import "time"

// Visitor represents an anonymous browser/device tracked via a
// client-generated opaque ID ("visitor_<random>"). The latest demographic
// inference is denormalized onto the row; history lives in
// InferredDemographic.
type Visitor struct {
	ID             int64     `json:"id"`
	VisitorID      string    `json:"visitor_id"`
	IPAddress      *string   `json:"ip_address"`
	Country        *string   `json:"country"`
	City           *string   `json:"city"`
	Region         *string   `json:"region"`
	UserAgent      *string   `json:"user_agent"`
	DeviceType     *string   `json:"device_type"`
	Browser        *string   `json:"browser"`
	OS             *string   `json:"os"`
	Referrer       *string   `json:"referrer"`
	LandingPage    *string   `json:"landing_page"`
	FirstVisit     time.Time `json:"first_visit"`
	LastVisit      time.Time `json:"last_visit"`
	TotalVisits    int       `json:"total_visits"`
	AgeRange       *string   `json:"age_range"`
	Gender         *string   `json:"gender"`
	Interests      *string   `json:"interests"`
	Occupation     *string   `json:"occupation"`
	EducationLevel *string   `json:"education_level"`
}

// UserData carries the optional attributes submitted with a visitor upsert.
type UserData struct {
	IP          *string `json:"ip"`
	Country     *string `json:"country"`
	City        *string `json:"city"`
	Region      *string `json:"region"`
	UserAgent   *string `json:"userAgent"`
	DeviceType  *string `json:"deviceType"`
	Browser     *string `json:"browser"`
	OS          *string `json:"os"`
	Referrer    *string `json:"referrer"`
	LandingPage *string `json:"landingPage"`
}

// SignalRecord is one immutable, append-only row of raw device/behavioral
// signals tied to a visitor. Rows are never updated, only inserted or
// bulk-deleted on opt-out.
type SignalRecord struct {
	ID                  string    `json:"id"`
	VisitorID           string    `json:"visitor_id"`
	FingerprintID       *string   `json:"fingerprint_id"`
	Timezone            *string   `json:"timezone"`
	Language            *string   `json:"language"`
	Languages           *string   `json:"languages"` // JSON array
	ScreenResolution    *string   `json:"screen_resolution"`
	ColorDepth          int       `json:"color_depth"`
	HardwareConcurrency int       `json:"hardware_concurrency"`
	DeviceMemory        *float64  `json:"device_memory"`
	Platform            *string   `json:"platform"`
	TouchSupport        bool      `json:"touch_support"`
	CookieEnabled       bool      `json:"cookie_enabled"`
	DoNotTrack          *string   `json:"do_not_track"`
	HourOfDay           int       `json:"hour_of_day"`
	DayOfWeek           int       `json:"day_of_week"`
	IsWeekday           bool      `json:"is_weekday"`
	IsBusinessHours     bool      `json:"is_business_hours"`
	Referrer            *string   `json:"referrer"`
	LandingPage         *string   `json:"landing_page"`
	CollectedAt         time.Time `json:"collected_at"`
}

// InferredDemographic is one append-only inference run that cleared the
// persistence threshold, tagged with the algorithm version that produced it.
type InferredDemographic struct {
	ID               string    `json:"id"`
	VisitorID        string    `json:"visitor_id"`
	AgeRange         *string   `json:"age_range"`
	Gender           *string   `json:"gender"`
	Occupation       *string   `json:"occupation"`
	EducationLevel   *string   `json:"education_level"`
	Interests        *string   `json:"interests"`
	ConfidenceScore  float64   `json:"confidence_score"`
	AlgorithmVersion string    `json:"algorithm_version"`
	InferredAt       time.Time `json:"inferred_at"`
}

// Demographics is the denormalized slice of a Visitor row that an inference
// run overwrites.
type Demographics struct {
	AgeRange       *string
	Gender         *string
	Interests      *string
	Occupation     *string
	EducationLevel *string
}

// Repository defines the operations for persisting Visitor entities.
type Repository interface {
	FindByVisitorID(visitorID string) (*Visitor, error)
	Create(visitorID string, data UserData) error
	// Touch increments the visit counter, refreshes last_visit, and keeps
	// existing IP/user-agent values when the new ones are nil.
	Touch(visitorID string, ip, userAgent *string) error
	UpdateDemographics(visitorID string, d Demographics) error
	ClearDemographics(visitorID string) error
	List(limit, offset int) ([]*Visitor, error)
	Count() (int, error)
	CountSince(since time.Time) (int, error)
	Delete(visitorID string) error
}

// SignalRepository defines the operations for persisting SignalRecord rows.
type SignalRepository interface {
	Create(record *SignalRecord) error
	FindByVisitorID(visitorID string) ([]*SignalRecord, error)
	DeleteByVisitorID(visitorID string) error
}

// DemographicRepository defines the operations for persisting inference runs.
type DemographicRepository interface {
	Create(d *InferredDemographic) error
	FindByVisitorID(visitorID string) ([]*InferredDemographic, error)
	DeleteByVisitorID(visitorID string) error
}
