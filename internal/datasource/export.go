package datasource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/turf-analytics/internal/models"
)

const bordaColumnPrefix = "borda_"

// column aliases seen across export generations
var (
	codeColumns       = []string{"course", "course_id", "code_course"}
	dateColumns       = []string{"date"}
	venueColumns      = []string{"hippodrome"}
	timeColumns       = []string{"heure"}
	disciplineColumns = []string{"discipline"}
	fieldSizeColumns  = []string{"nombre_partants"}
	numberColumns     = []string{"numero", "n°"}
	nameColumns       = []string{"cheval"}
	driverColumns     = []string{"driver", "jockey"}
	formColumns       = []string{"musique"}
	rankColumns       = []string{"rank", "rang_arrivee", "ordre_arrivee", "rang"}

	criterionColumns = map[string]models.Criterion{
		"cote":             models.CriterionOddsPMU,
		"cote_pmu":         models.CriterionOddsPMU,
		"cote_direct":      models.CriterionOddsPMU,
		"cote bzh":         models.CriterionOddsBZH,
		"cote_bzh":         models.CriterionOddsBZH,
		"cote_reference":   models.CriterionOddsBZH,
		"ia_gagnant":       models.CriterionAIWin,
		"ia_couple":        models.CriterionAIPair,
		"ia_trio":          models.CriterionAITrio,
		"ia_multi":         models.CriterionAIMulti,
		"ia_quinte":        models.CriterionAIQuinte,
		"turf points":      models.CriterionTurfPoints,
		"turf_points":      models.CriterionTurfPoints,
		"elo_cheval":       models.CriterionEloHorse,
		"elo_jockey":       models.CriterionEloJockey,
		"elo_entraineur":   models.CriterionEloTrainer,
		"elo_proprietaire": models.CriterionEloOwner,
		"elo_eleveur":      models.CriterionEloBreeder,
		"gains":            models.CriterionEarnings,
		"popularite":       models.CriterionPopularity,
		"corde":            models.CriterionDraw,
		"repos":            models.CriterionRestDays,
		"jours_repos":      models.CriterionRestDays,
		"taux_victoire":    models.CriterionWinRate,
		"taux_place":       models.CriterionPlaceRate,
		"borda":            models.CriterionBordaScore,
		"score_borda":      models.CriterionBordaScore,
	}
)

// ParseExport reads a ';'-separated daily export. Rows are grouped into races by
// date, venue and code in order of first appearance. defaultDate is used when
// the export has no date column.
func ParseExport(r io.Reader, defaultDate time.Time) (*Export, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Export{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export header: %w", err)
	}

	cols := newColumnIndex(header)
	if cols.lookup(numberColumns) < 0 || cols.lookup(codeColumns) < 0 {
		return nil, fmt.Errorf("%w: export lacks race code or program number column", ErrInvalidData)
	}

	export := &Export{}
	races := make(map[string]int)
	seen := make(map[string]map[int]bool)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			export.Rejected++
			continue
		}

		row := cols.row(record)
		number, ok := parseInt(row.get(numberColumns))
		code := strings.ToUpper(strings.TrimSpace(row.get(codeColumns)))
		if !ok || number <= 0 || code == "" {
			export.Rejected++
			continue
		}

		date := defaultDate
		if d, ok := parseDate(row.get(dateColumns)); ok {
			date = d
		}
		venue := strings.ToUpper(strings.TrimSpace(row.get(venueColumns)))

		key := date.Format("2006-01-02") + "|" + venue + "|" + code
		idx, exists := races[key]
		if !exists {
			fieldSize, _ := parseInt(row.get(fieldSizeColumns))
			export.Races = append(export.Races, RaceData{
				Date:           date,
				Code:           code,
				Venue:          venue,
				Discipline:     models.ParseDiscipline(row.get(disciplineColumns)),
				ScheduledStart: parseStart(date, row.get(timeColumns)),
				DeclaredField:  fieldSize,
			})
			idx = len(export.Races) - 1
			races[key] = idx
			seen[key] = make(map[int]bool)
		}
		if seen[key][number] {
			export.Rejected++
			continue
		}
		seen[key][number] = true

		export.Races[idx].Runners = append(export.Races[idx].Runners, RunnerData{
			ProgramNumber:  number,
			Name:           strings.TrimSpace(row.get(nameColumns)),
			Driver:         strings.TrimSpace(row.get(driverColumns)),
			Values:         row.criteria(),
			FinishPosition: parseRank(row.get(rankColumns)),
		})
	}

	return export, nil
}

type columnIndex struct {
	byName map[string]int
	header []string
}

func newColumnIndex(header []string) columnIndex {
	idx := columnIndex{byName: make(map[string]int, len(header)), header: make([]string, len(header))}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		idx.header[i] = name
		if _, dup := idx.byName[name]; !dup {
			idx.byName[name] = i
		}
	}
	return idx
}

func (c columnIndex) lookup(aliases []string) int {
	for _, a := range aliases {
		if i, ok := c.byName[a]; ok {
			return i
		}
	}
	return -1
}

func (c columnIndex) row(record []string) exportRow {
	return exportRow{cols: c, record: record}
}

type exportRow struct {
	cols   columnIndex
	record []string
}

func (r exportRow) get(aliases []string) string {
	i := r.cols.lookup(aliases)
	if i < 0 || i >= len(r.record) {
		return ""
	}
	return r.record[i]
}

// criteria collects every known criterion column plus borda_<name> systems
func (r exportRow) criteria() map[models.Criterion]float64 {
	values := make(map[models.Criterion]float64)
	for i, name := range r.cols.header {
		if i >= len(r.record) {
			break
		}
		c, ok := criterionColumns[name]
		if !ok && strings.HasPrefix(name, bordaColumnPrefix) {
			c, ok = models.BordaSystem(strings.TrimPrefix(name, bordaColumnPrefix)), true
		}
		if !ok {
			continue
		}
		if _, set := values[c]; set {
			continue
		}
		if v, ok := ParseDecimal(r.record[i]); ok {
			values[c] = v
		}
	}
	if form, ok := RecentForm(r.get(formColumns)); ok {
		if _, set := values[models.CriterionRecentForm]; !set {
			values[models.CriterionRecentForm] = form
		}
	}
	return values
}

// ParseDecimal parses a number written with either a decimal comma or point.
// Blank cells and placeholders are reported as missing.
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "-", "none", "nan", "np", "n/a":
		return 0, false
	}
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if percent {
		v /= 100
	}
	return v, true
}

// RecentForm turns a "musique" string such as "1a3a(25)Da2a" into the share
// of top-three finishes over the last five runs. Fewer than five runs give
// the neutral 0.5.
func RecentForm(musique string) (float64, bool) {
	musique = strings.TrimSpace(musique)
	if musique == "" {
		return 0, false
	}

	var placings []rune
	depth := 0
	runes := []rune(musique)
	for i := 0; i < len(runes); i++ {
		switch ch := runes[i]; {
		case ch == '(':
			depth++
		case ch == ')':
			if depth > 0 {
				depth--
			}
		case depth > 0:
		case isPlacing(ch):
			placings = append(placings, ch)
			// the discipline letter after a placing is not a run of its own
			if i+1 < len(runes) && isDisciplineLetter(runes[i+1]) {
				i++
			}
		}
	}

	if len(placings) < 5 {
		return 0.5, true
	}
	top := 0
	for _, p := range placings[:5] {
		if p == '1' || p == '2' || p == '3' {
			top++
		}
	}
	return float64(top) / 5, true
}

func isPlacing(ch rune) bool {
	return (ch >= '0' && ch <= '9') || strings.ContainsRune("DATR", ch)
}

func isDisciplineLetter(ch rune) bool {
	return strings.ContainsRune("ampshco", ch)
}

func parseInt(s string) (int, bool) {
	v, ok := ParseDecimal(s)
	if !ok || v != float64(int(v)) {
		return 0, false
	}
	return int(v), true
}

func parseRank(s string) *int {
	v, ok := parseInt(s)
	if !ok || v <= 0 {
		return nil
	}
	return &v
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "02/01/2006", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func parseStart(date time.Time, s string) time.Time {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Replace(s, "h", ":", 1)
	t, err := time.Parse("15:04", s)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}
