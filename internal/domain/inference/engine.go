// Package inference implements the heuristic demographic scoring engine.
// It maps device and behavioral signals collected on the landing page to a
// best-effort demographic guess. The engine is a pure function: same inputs,
// same output, no persistence, and it never fails. Missing or malformed
// signals degrade to nil fields instead of errors.
package inference

import (
	"strconv"
	"strings"
)

// ConfidenceCap bounds heuristic confidence; guesses from indirect signals are
// never reported above 70%.
const ConfidenceCap = 0.7

// DeviceSignals holds the device fingerprint portion of a signal submission.
type DeviceSignals struct {
	FingerprintID       string   `json:"fingerprintId"`
	Timezone            string   `json:"timezone"`
	Language            string   `json:"language"`
	Languages           []string `json:"languages"`
	ScreenResolution    string   `json:"screenResolution"` // "WxH"
	ColorDepth          int      `json:"colorDepth"`
	HardwareConcurrency int      `json:"hardwareConcurrency"`
	DeviceMemory        *float64 `json:"deviceMemory"`
	Platform            string   `json:"platform"`
	TouchSupport        bool     `json:"touchSupport"`
	CookieEnabled       bool     `json:"cookieEnabled"`
	DoNotTrack          string   `json:"doNotTrack"`
}

// BehavioralSignals holds the behavioral portion of a signal submission.
type BehavioralSignals struct {
	HourOfDay       int    `json:"hourOfDay"`
	DayOfWeek       int    `json:"dayOfWeek"`
	IsWeekday       bool   `json:"isWeekday"`
	IsBusinessHours bool   `json:"isBusinessHours"`
	Referrer        string `json:"referrer"`
	LandingPage     string `json:"landingPage"`
}

// Result is the demographic guess produced by a single inference run.
// Gender is always nil: it is never inferred without an explicit self-report.
type Result struct {
	AgeRange       string   `json:"ageRange"`
	Gender         *string  `json:"gender"`
	Occupation     *string  `json:"occupation"`
	EducationLevel *string  `json:"educationLevel"`
	Interests      *string  `json:"interests"`
	Confidence     float64  `json:"confidence"`
	InterestList   []string `json:"-"`
}

// InferDemographics scores the given signals and returns a demographic guess.
// Scoring rules run in a fixed order; hint lists keep insertion order and the
// first hint wins when the result is flattened to a single value.
func InferDemographics(device DeviceSignals, behavioral BehavioralSignals) Result {
	var ageScore float64
	var occupationHints, educationHints, interestHints []string
	confidence := 0.5

	// Age: access hour
	switch {
	case behavioral.HourOfDay >= 0 && behavioral.HourOfDay < 6:
		ageScore -= 2
	case behavioral.HourOfDay >= 22:
		ageScore--
	case behavioral.HourOfDay >= 6 && behavioral.HourOfDay < 9:
		ageScore++
	}

	// Age: high-end hardware suggests purchasing power
	if device.HardwareConcurrency >= 8 || (device.DeviceMemory != nil && *device.DeviceMemory >= 8) {
		ageScore++
		educationHints = append(educationHints, "graduate")
		occupationHints = append(occupationHints, "professional")
	}

	// Age: mobile skews younger
	isMobile := isMobileDevice(device)
	if isMobile {
		ageScore -= 0.5
	}

	// Occupation: weekday business-hours access
	if behavioral.IsWeekday && behavioral.IsBusinessHours {
		occupationHints = append(occupationHints, "employee")
		educationHints = append(educationHints, "undergraduate")
	}

	// Occupation: desktop during business hours
	if !isMobile && behavioral.IsBusinessHours && behavioral.IsWeekday {
		occupationHints = append(occupationHints, "professional")
		educationHints = append(educationHints, "graduate")
		confidence += 0.1
	}

	// Interests: landing page context
	if behavioral.LandingPage == "/" {
		interestHints = append(interestHints, "marketing", "entrepreneurship", "social-media")
	}

	var ageRange string
	switch {
	case ageScore < -2:
		ageRange = "18-24"
	case ageScore < 0:
		ageRange = "25-34"
	case ageScore < 2:
		ageRange = "35-44"
	case ageScore < 4:
		ageRange = "45-54"
	default:
		ageRange = "55+"
	}

	result := Result{
		AgeRange:     ageRange,
		Confidence:   min(confidence, ConfidenceCap),
		InterestList: interestHints,
	}
	if len(occupationHints) > 0 {
		result.Occupation = &occupationHints[0]
	}
	if len(educationHints) > 0 {
		result.EducationLevel = &educationHints[0]
	}
	if len(interestHints) > 0 {
		joined := strings.Join(interestHints, ",")
		result.Interests = &joined
	}

	return result
}

// isMobileDevice treats touch support plus a narrow screen as mobile.
// An unparseable resolution string is not counted as narrow.
func isMobileDevice(device DeviceSignals) bool {
	if !device.TouchSupport {
		return false
	}
	widthStr, _, found := strings.Cut(device.ScreenResolution, "x")
	if !found {
		return false
	}
	width, err := strconv.Atoi(strings.TrimSpace(widthStr))
	if err != nil {
		return false
	}
	return width < 800
}
