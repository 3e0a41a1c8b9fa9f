package models

import (
	"regexp"
	"strings"
)

// Day is a day of the week as published by the catalog timetable.
type Day string

const (
	DayMonday    Day = "MONDAY"
	DayTuesday   Day = "TUESDAY"
	DayWednesday Day = "WEDNESDAY"
	DayThursday  Day = "THURSDAY"
	DayFriday    Day = "FRIDAY"
	DaySaturday  Day = "SATURDAY"
)

// dayByCode decodes the catalog's single-letter day codes. The catalog uses
// W for Wednesday while M is Tuesday (martes); this is an upstream fact, not
// a transliteration mistake.
var dayByCode = map[string]Day{
	"L": DayMonday,
	"M": DayTuesday,
	"W": DayWednesday,
	"J": DayThursday,
	"V": DayFriday,
	"S": DaySaturday,
}

// DayFromCode resolves a single-letter day code. Unknown codes (the catalog
// occasionally emits D for Sunday activities) report ok=false.
func DayFromCode(code string) (Day, bool) {
	d, ok := dayByCode[strings.ToUpper(code)]
	return d, ok
}

// ScheduleKind classifies a timetable activity.
type ScheduleKind string

const (
	KindLecture  ScheduleKind = "LECTURE"
	KindTutorial ScheduleKind = "TUTORIAL"
	KindLab      ScheduleKind = "LAB"
)

// KindFromActivity maps the catalog's activity codes onto schedule kinds.
// Codes without a dedicated kind (TAL, TER, PRA, ...) pass through as-encoded.
func KindFromActivity(code string) ScheduleKind {
	switch strings.ToUpper(code) {
	case "CLAS":
		return KindLecture
	case "AYU":
		return KindTutorial
	case "LAB":
		return KindLab
	default:
		return ScheduleKind(strings.ToUpper(code))
	}
}

// ScheduleEntry is one day/kind block of a section's timetable. Modules are
// the institution's fixed time-block indices, not clock times.
type ScheduleEntry struct {
	Kind    ScheduleKind `json:"kind"`
	Day     Day          `json:"day"`
	Modules []int        `json:"modules"`
	Room    string       `json:"room,omitempty"`
}

// Section is one offering of a course within a term. NRC is the natural key
// within a term; uniqueness is trusted from upstream.
type Section struct {
	NRC            string          `json:"nrc"`
	Code           string          `json:"code"`
	SectionNumber  int             `json:"sectionNumber"`
	Title          string          `json:"title"`
	Professor      string          `json:"professor"`
	Campus         string          `json:"campus,omitempty"`
	Credits        int             `json:"credits"`
	TotalSeats     int             `json:"totalSeats"`
	AvailableSeats int             `json:"availableSeats"`
	Schedule       []ScheduleEntry `json:"schedule"`
	RequiresLab    bool            `json:"requiresLab"`
}

// Query describes one course lookup. Filters apply after fetch/parse and
// never participate in the cache key.
type Query struct {
	Code      string
	Term      string
	Professor string
	Campus    string
}

// Normalize uppercases the code and trims the term, giving all spellings of
// the same lookup one cache identity.
func (q Query) Normalize() Query {
	q.Code = strings.ToUpper(strings.TrimSpace(q.Code))
	q.Term = strings.TrimSpace(q.Term)
	q.Professor = strings.TrimSpace(q.Professor)
	q.Campus = strings.TrimSpace(q.Campus)
	return q
}

// BatchItemResult is the outcome for one code of a batch lookup. A failed
// item carries the error string and an empty section list.
type BatchItemResult struct {
	Code     string    `json:"code"`
	Ok       bool      `json:"ok"`
	Sections []Section `json:"sections"`
	Error    string    `json:"error,omitempty"`
}

// VacancyDistribution is the reserved-seat breakdown for one NRC, one row
// per school/program bucket.
type VacancyDistribution struct {
	School          string `json:"school"`
	Program         string `json:"program,omitempty"`
	Concentration   string `json:"concentration,omitempty"`
	Cohort          string `json:"cohort,omitempty"`
	AdmissionPeriod string `json:"admissionPeriod,omitempty"`
	Offered         int    `json:"offered"`
	Occupied        int    `json:"occupied"`
	Available       int    `json:"available"`
}

var (
	codePattern = regexp.MustCompile(`^[A-Z]{3}\d{3,4}[A-Z]?$`)
	termPattern = regexp.MustCompile(`^20\d{2}-[123S]$`)
)

// ValidCode reports whether s is a well-formed course code after
// normalization (three letters, three or four digits, optional letter).
func ValidCode(s string) bool {
	return codePattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// ValidTerm reports whether s is a well-formed term (YYYY-S).
func ValidTerm(s string) bool {
	return termPattern.MatchString(strings.TrimSpace(s))
}
