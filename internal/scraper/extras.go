package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cristianvalmo/buscacursos-api/internal/models"
	appErrors "github.com/cristianvalmo/buscacursos-api/pkg/errors"
)

// ParseSemesters reads the term dropdown off the search page. Values that
// do not look like terms (placeholder options) are ignored.
func ParseSemesters(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrParse.Code, appErrors.ErrParse.Status, appErrors.ErrParse.Message)
	}

	sel := doc.Find(`select[name="cxml_semestre"]`)
	if sel.Length() == 0 {
		return nil, appErrors.ErrParse
	}

	var semesters []string
	sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		value, _ := opt.Attr("value")
		if models.ValidTerm(value) {
			semesters = append(semesters, value)
		}
	})
	return semesters, nil
}

// ParseVacancies reads the reserved-vacancy detail fragment for one NRC.
// The fragment reuses the results row classes with a 9-column layout:
//
//	1 school | 2 program | 3 concentration | 4 cohort | 5 admission period |
//	6 offered | 7 occupied | 8 available
//
// An empty fragment means the NRC has no reserved buckets, not an error.
func ParseVacancies(html string) ([]models.VacancyDistribution, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrParse.Code, appErrors.ErrParse.Status, appErrors.ErrParse.Message)
	}

	result := []models.VacancyDistribution{}
	doc.Find(resultRowSelector).Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < 9 {
			return
		}
		result = append(result, models.VacancyDistribution{
			School:          cellText(cells.Eq(1)),
			Program:         cellText(cells.Eq(2)),
			Concentration:   cellText(cells.Eq(3)),
			Cohort:          cellText(cells.Eq(4)),
			AdmissionPeriod: cellText(cells.Eq(5)),
			Offered:         cleanInt(cellText(cells.Eq(6)), 0),
			Occupied:        cleanInt(cellText(cells.Eq(7)), 0),
			Available:       cleanInt(cellText(cells.Eq(8)), 0),
		})
	})
	return result, nil
}
