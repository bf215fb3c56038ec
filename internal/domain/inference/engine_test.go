package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestConfidenceAlwaysWithinBounds(t *testing.T) {
	hours := []int{0, 3, 6, 8, 10, 14, 21, 22, 23}
	concurrencies := []int{0, 2, 8, 16}
	memories := []*float64{nil, floatPtr(2), floatPtr(8), floatPtr(16)}
	resolutions := []string{"", "390x844", "1920x1080", "garbage"}

	for _, hour := range hours {
		for _, hw := range concurrencies {
			for _, mem := range memories {
				for _, res := range resolutions {
					for _, weekday := range []bool{true, false} {
						for _, business := range []bool{true, false} {
							result := InferDemographics(
								DeviceSignals{
									HardwareConcurrency: hw,
									DeviceMemory:        mem,
									ScreenResolution:    res,
									TouchSupport:        true,
								},
								BehavioralSignals{
									HourOfDay:       hour,
									IsWeekday:       weekday,
									IsBusinessHours: business,
									LandingPage:     "/",
								},
							)
							assert.GreaterOrEqual(t, result.Confidence, 0.0)
							assert.LessOrEqual(t, result.Confidence, ConfidenceCap)
						}
					}
				}
			}
		}
	}
}

func TestEarlyMorningLowEndDevice(t *testing.T) {
	result := InferDemographics(
		DeviceSignals{
			HardwareConcurrency: 2,
			ScreenResolution:    "1920x1080",
			TouchSupport:        false,
		},
		BehavioralSignals{
			HourOfDay:       3,
			IsWeekday:       true,
			IsBusinessHours: false,
			LandingPage:     "/",
		},
	)

	assert.Equal(t, "25-34", result.AgeRange)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	assert.Nil(t, result.Occupation)
	assert.Nil(t, result.EducationLevel)
	require.NotNil(t, result.Interests)
	assert.Equal(t, "marketing,entrepreneurship,social-media", *result.Interests)
}

func TestBusinessHoursHighEndDesktop(t *testing.T) {
	result := InferDemographics(
		DeviceSignals{
			HardwareConcurrency: 16,
			DeviceMemory:        floatPtr(16),
			ScreenResolution:    "2560x1440",
			TouchSupport:        false,
		},
		BehavioralSignals{
			HourOfDay:       10,
			IsWeekday:       true,
			IsBusinessHours: true,
			LandingPage:     "/",
		},
	)

	// ageScore: hardware +1 only; hour 10 falls in no bracket.
	assert.Equal(t, "35-44", result.AgeRange)
	assert.InDelta(t, 0.6, result.Confidence, 1e-9)
	require.NotNil(t, result.Occupation)
	assert.Equal(t, "professional", *result.Occupation)
	require.NotNil(t, result.EducationLevel)
	assert.Equal(t, "graduate", *result.EducationLevel)
}

func TestFirstOccupationHintWins(t *testing.T) {
	// Low-end desktop during business hours: "employee" is pushed before
	// "professional", so "employee" must win.
	result := InferDemographics(
		DeviceSignals{
			HardwareConcurrency: 4,
			ScreenResolution:    "1920x1080",
			TouchSupport:        false,
		},
		BehavioralSignals{
			HourOfDay:       10,
			IsWeekday:       true,
			IsBusinessHours: true,
		},
	)

	require.NotNil(t, result.Occupation)
	assert.Equal(t, "employee", *result.Occupation)
	require.NotNil(t, result.EducationLevel)
	assert.Equal(t, "undergraduate", *result.EducationLevel)
}

func TestMobileSkewsYounger(t *testing.T) {
	mobile := InferDemographics(
		DeviceSignals{ScreenResolution: "390x844", TouchSupport: true},
		BehavioralSignals{HourOfDay: 23},
	)
	desktop := InferDemographics(
		DeviceSignals{ScreenResolution: "1920x1080", TouchSupport: false},
		BehavioralSignals{HourOfDay: 23},
	)

	// -1 (hour) -0.5 (mobile) = -1.5 vs -1: both "25-34", but the raw score
	// difference shows at the bucket edge.
	assert.Equal(t, "25-34", mobile.AgeRange)
	assert.Equal(t, "25-34", desktop.AgeRange)

	edge := InferDemographics(
		DeviceSignals{ScreenResolution: "390x844", TouchSupport: true},
		BehavioralSignals{HourOfDay: 2},
	)
	assert.Equal(t, "18-24", edge.AgeRange) // -2 -0.5 = -2.5 < -2
}

func TestUnparseableResolutionIsNotMobile(t *testing.T) {
	for _, res := range []string{"", "garbage", "x1080", "abcx800"} {
		result := InferDemographics(
			DeviceSignals{ScreenResolution: res, TouchSupport: true},
			BehavioralSignals{HourOfDay: 2},
		)
		// No mobile penalty: -2 is not < -2.
		assert.Equal(t, "25-34", result.AgeRange, "resolution %q", res)
	}
}

func TestGenderIsNeverInferred(t *testing.T) {
	result := InferDemographics(
		DeviceSignals{HardwareConcurrency: 16, ScreenResolution: "2560x1440"},
		BehavioralSignals{HourOfDay: 10, IsWeekday: true, IsBusinessHours: true, LandingPage: "/"},
	)
	assert.Nil(t, result.Gender)
}

func TestNoLandingPageMatchYieldsNilInterests(t *testing.T) {
	result := InferDemographics(
		DeviceSignals{},
		BehavioralSignals{LandingPage: "/obrigado"},
	)
	assert.Nil(t, result.Interests)
	assert.Empty(t, result.InterestList)
}
