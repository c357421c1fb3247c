package model

// WageLevel is the 1-4 prevailing wage level, kept as the string the
// output contract uses.
type WageLevel string

const (
	WageLevel1 WageLevel = "1"
	WageLevel2 WageLevel = "2"
	WageLevel3 WageLevel = "3"
	WageLevel4 WageLevel = "4"
)

// WageLevels lists the allowed levels in ascending order.
var WageLevels = []WageLevel{WageLevel1, WageLevel2, WageLevel3, WageLevel4}

// Valid reports whether l is one of the four allowed levels.
func (l WageLevel) Valid() bool {
	switch l {
	case WageLevel1, WageLevel2, WageLevel3, WageLevel4:
		return true
	}
	return false
}

// Confidence tags how well the description supports the chosen level.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Valid reports whether c is one of the allowed confidence tags.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// WageLevelClassification pairs the level with its confidence.
type WageLevelClassification struct {
	Level      WageLevel  `json:"level"`
	Confidence Confidence `json:"confidence"`
}

// Classification is the externally visible output of the constrained
// classifier. Its JSON form has exactly three top-level keys.
type Classification struct {
	Result     FilteredResult `json:"result"`
	Level      WageLevel      `json:"defensible_wage_level"`
	Confidence Confidence     `json:"confidence"`
}

// WageLevel returns the level part of the classification.
func (c Classification) WageLevel() WageLevelClassification {
	return WageLevelClassification{Level: c.Level, Confidence: c.Confidence}
}

// AdvisoryContext carries hints that may only annotate a classification.
// None of them is ever shown to the generative model.
type AdvisoryContext struct {
	Pay      string // e.g. "$40/hour" or "$120,000/year"
	County   string
	State    string
	RoleType string // IC, lead, architect, manager
}

// Location renders the county and state the way the datasets key them.
func (a *AdvisoryContext) Location() string {
	if a == nil {
		return ""
	}
	switch {
	case a.County != "" && a.State != "":
		return GeographyKey(a.County, a.State)
	case a.State != "":
		return a.State
	default:
		return a.County
	}
}

// Advisory note codes.
const (
	AdvisoryPayNotProvided    = "PAY_NOT_PROVIDED"
	AdvisoryPayUnparseable    = "PAY_UNPARSEABLE"
	AdvisoryCompensationRisk  = "COMPENSATION_RISK"
	AdvisoryPayAboveLevel     = "PAY_ABOVE_LEVEL_WAGE"
	AdvisoryLocationNotGiven  = "LOCATION_NOT_PROVIDED"
	AdvisoryRoleTypeMismatch  = "ROLE_TYPE_MISMATCH"
	AdvisoryPrevailingMissing = "PREVAILING_WAGE_UNAVAILABLE"
)

// AdvisoryNote flags a possible adjustment without causing it.
type AdvisoryNote struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
