// Package scraper turns raw BuscaCursos HTML into structured records. Every
// structural assumption about the upstream markup lives here, so a layout
// change touches this package only.
//
// Results page layout (18 columns per data row):
//
//	0 NRC | 1 code (nested div) | 4 section | 9 title | 10 professor |
//	11 campus | 12 credits | 13 total seats | 14 available seats |
//	16 schedule (nested table with rows DAYS:MODULES | ACTIVITY | ROOM)
//
// Schedule day cells may span several days ("L-W:2" means Monday and
// Wednesday, module 2).
package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cristianvalmo/buscacursos-api/internal/models"
	appErrors "github.com/cristianvalmo/buscacursos-api/pkg/errors"
)

const resultRowSelector = "tr.resultadosRowPar, tr.resultadosRowImpar"

// scheduleCellPattern captures DAYS:MODULES, where DAYS is one or more day
// letters joined by hyphens. D (Sunday) is accepted by the pattern so a
// multi-day cell containing it still parses; the unknown day itself is
// dropped during decoding.
var scheduleCellPattern = regexp.MustCompile(`(?i)^([LMWJVSD](?:-[LMWJVSD])*):(.+)$`)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// ParseSections extracts every cleanly-parseable section from a results
// page. Rows with missing or malformed mandatory fields are skipped, not
// fatal. A recognised page with zero matches yields an empty slice and no
// error; a page without the results structure at all yields ErrParse.
func ParseSections(html string) ([]models.Section, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrParse.Code, appErrors.ErrParse.Status, appErrors.ErrParse.Message)
	}

	rows := doc.Find(resultRowSelector)
	if rows.Length() == 0 {
		if !isRecognizedResultsPage(doc) {
			return nil, appErrors.ErrParse
		}
		return []models.Section{}, nil
	}

	sections := make([]models.Section, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		if section, ok := parseRow(row); ok {
			sections = append(sections, section)
		}
	})
	return sections, nil
}

// isRecognizedResultsPage distinguishes "zero matches" from "layout
// changed": a genuine results page always carries the search form with its
// term dropdown.
func isRecognizedResultsPage(doc *goquery.Document) bool {
	return doc.Find(`select[name="cxml_semestre"]`).Length() > 0
}

func parseRow(row *goquery.Selection) (models.Section, bool) {
	cells := row.ChildrenFiltered("td")
	if cells.Length() < 17 {
		return models.Section{}, false
	}

	nrc := cellText(cells.Eq(0))
	if !digitsOnly.MatchString(nrc) {
		return models.Section{}, false
	}

	code := parseCodeCell(cells.Eq(1))
	if code == "" {
		return models.Section{}, false
	}

	professor := cellText(cells.Eq(10))
	if professor == "" {
		return models.Section{}, false
	}

	totalSeats, ok := strictInt(cellText(cells.Eq(13)))
	if !ok {
		return models.Section{}, false
	}
	availableSeats, ok := strictInt(cellText(cells.Eq(14)))
	if !ok {
		return models.Section{}, false
	}

	schedule, hasLab := parseScheduleCell(cells.Eq(16))

	return models.Section{
		NRC:            nrc,
		Code:           code,
		SectionNumber:  cleanInt(cellText(cells.Eq(4)), 1),
		Title:          cellText(cells.Eq(9)),
		Professor:      professor,
		Campus:         cellText(cells.Eq(11)),
		Credits:        cleanInt(cellText(cells.Eq(12)), 0),
		TotalSeats:     totalSeats,
		AvailableSeats: availableSeats,
		Schedule:       schedule,
		RequiresLab:    hasLab,
	}, true
}

// parseCodeCell handles the nested div the catalog wraps around the course
// code, which also contains an "Info" icon label.
func parseCodeCell(cell *goquery.Selection) string {
	if div := cell.Find("div").First(); div.Length() > 0 {
		return strings.TrimSpace(strings.ReplaceAll(div.Text(), "Info", ""))
	}
	return cellText(cell)
}

// parseScheduleCell reads the nested schedule table. Multi-day cells expand
// to one entry per day, and repeated day/kind combinations merge their
// module lists instead of producing duplicate entries. The second return
// reports whether any activity requires a lab (LAB or TAL).
func parseScheduleCell(cell *goquery.Selection) ([]models.ScheduleEntry, bool) {
	entries := []models.ScheduleEntry{}
	hasLab := false

	nested := cell.Find("table").First()
	if nested.Length() == 0 {
		return entries, false
	}

	type slotKey struct {
		day  models.Day
		kind models.ScheduleKind
	}
	index := map[slotKey]int{}

	nested.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		slotCells := tr.ChildrenFiltered("td")
		if slotCells.Length() < 2 {
			return
		}

		match := scheduleCellPattern.FindStringSubmatch(cellText(slotCells.Eq(0)))
		if match == nil {
			return
		}

		activity := strings.ToUpper(cellText(slotCells.Eq(1)))
		if activity == "" {
			return
		}

		modules := parseModules(match[2])
		if len(modules) == 0 {
			return
		}

		room := ""
		if slotCells.Length() > 2 {
			room = normalizeRoom(cellText(slotCells.Eq(2)))
		}

		if activity == "LAB" || activity == "TAL" {
			hasLab = true
		}
		kind := models.KindFromActivity(activity)

		for _, dayCode := range strings.Split(strings.ToUpper(match[1]), "-") {
			day, ok := models.DayFromCode(dayCode)
			if !ok {
				continue
			}
			key := slotKey{day: day, kind: kind}
			if i, seen := index[key]; seen {
				entries[i].Modules = mergeModules(entries[i].Modules, modules)
				if entries[i].Room == "" {
					entries[i].Room = room
				}
				continue
			}
			index[key] = len(entries)
			entries = append(entries, models.ScheduleEntry{
				Kind:    kind,
				Day:     day,
				Modules: append([]int(nil), modules...),
				Room:    room,
			})
		}
	})

	return entries, hasLab
}

func parseModules(raw string) []int {
	parts := strings.Split(raw, ",")
	modules := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			continue
		}
		modules = append(modules, n)
	}
	return modules
}

// mergeModules appends the new module indices, keeping the combined list
// sorted ascending without duplicates.
func mergeModules(existing, extra []int) []int {
	seen := make(map[int]struct{}, len(existing)+len(extra))
	for _, m := range existing {
		seen[m] = struct{}{}
	}
	merged := append([]int(nil), existing...)
	for _, m := range extra {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		merged = append(merged, m)
	}
	for i := 1; i < len(merged); i++ {
		for j := i; j > 0 && merged[j] < merged[j-1]; j-- {
			merged[j], merged[j-1] = merged[j-1], merged[j]
		}
	}
	return merged
}

func normalizeRoom(raw string) string {
	room := strings.Trim(strings.TrimSpace(raw), "()")
	switch strings.ToLower(room) {
	case "", "-", "por asignar":
		return ""
	}
	return room
}

func cellText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// cleanInt converts catalog numbers, stripping the Spanish thousands
// separators ("1.000"), falling back to def when the cell is empty or
// malformed.
func cleanInt(raw string, def int) int {
	n, ok := strictInt(raw)
	if !ok {
		return def
	}
	return n
}

func strictInt(raw string) (int, bool) {
	cleaned := strings.NewReplacer(".", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, false
	}
	return n, true
}
