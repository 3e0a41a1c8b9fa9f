package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDayFromCode(t *testing.T) {
	cases := map[string]Day{
		"L": DayMonday,
		"M": DayTuesday,
		"W": DayWednesday,
		"J": DayThursday,
		"V": DayFriday,
		"S": DaySaturday,
		"w": DayWednesday,
	}
	for code, want := range cases {
		got, ok := DayFromCode(code)
		assert.True(t, ok, code)
		assert.Equal(t, want, got, code)
	}

	_, ok := DayFromCode("D")
	assert.False(t, ok, "Sunday has no mapping")
	_, ok = DayFromCode("X")
	assert.False(t, ok)
}

func TestKindFromActivity(t *testing.T) {
	assert.Equal(t, KindLecture, KindFromActivity("CLAS"))
	assert.Equal(t, KindTutorial, KindFromActivity("AYU"))
	assert.Equal(t, KindLab, KindFromActivity("LAB"))
	assert.Equal(t, KindLab, KindFromActivity("lab"))
	assert.Equal(t, ScheduleKind("TAL"), KindFromActivity("TAL"), "unmapped codes pass through uppercased")
}

func TestValidCode(t *testing.T) {
	valid := []string{"ICS2123", "MAT1610", "IIC2233", "FIS1503", "ICS211", "IEE2103B", "ics2123", " ICS2123 "}
	for _, code := range valid {
		assert.True(t, ValidCode(code), code)
	}

	invalid := []string{"", "ICS", "2123", "ICSX2123", "IC2123", "ICS21234X5", "ICS-2123"}
	for _, code := range invalid {
		assert.False(t, ValidCode(code), code)
	}
}

func TestValidTerm(t *testing.T) {
	valid := []string{"2026-1", "2025-2", "2024-3", "2024-S", " 2026-1 "}
	for _, term := range valid {
		assert.True(t, ValidTerm(term), term)
	}

	invalid := []string{"", "2026", "26-1", "2026-4", "2026/1", "1999-1"}
	for _, term := range invalid {
		assert.False(t, ValidTerm(term), term)
	}
}

func TestQueryNormalize(t *testing.T) {
	q := Query{Code: " ics2123 ", Term: " 2026-1 ", Professor: " Perez ", Campus: " San Joaquin "}.Normalize()
	assert.Equal(t, "ICS2123", q.Code)
	assert.Equal(t, "2026-1", q.Term)
	assert.Equal(t, "Perez", q.Professor)
	assert.Equal(t, "San Joaquin", q.Campus)
}
