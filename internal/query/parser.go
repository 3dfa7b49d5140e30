// Package query turns loosely structured text ("U16 tournaments next month
// in Barcelona") into a model.QueryFilter. The reference date is always an
// argument so results never depend on the wall clock.
package query

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/courtside/academy-recommender/internal/model"
)

var (
	thisMonthRe = regexp.MustCompile(`\bthis\s+month\b`)
	nextMonthRe = regexp.MustCompile(`\bnext\s+month\b`)
	monthRe     = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	categoryRe  = regexp.MustCompile(`\b(?:u-?\s?(12|14|16|18)|(adults?))\b`)
	typeRe      = regexp.MustCompile(`\b(international|national|local|proximity)\b`)

	// "may" and "march" are also verbs and only count as months in date context.
	monthLeadRe    = regexp.MustCompile(`\b(?:in|during|for|from|until|till|by|of|early|mid|late)\s+$`)
	monthTrailRe   = regexp.MustCompile(`^\s+(?:\d{1,4}\b|(?:tournaments?|events?|competitions?|draws?)\b)`)
	ambiguousMonth = map[string]bool{"may": true, "march": true}
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// Parser holds the gazetteer of known locations.
type Parser struct {
	locations []string
}

// NewParser builds a parser. Duplicate and blank locations are dropped;
// longer names are tried first so "San Sebastian" wins over "San".
func NewParser(locations []string) *Parser {
	seen := make(map[string]bool, len(locations))
	locs := make([]string, 0, len(locations))
	for _, l := range locations {
		l = strings.TrimSpace(l)
		key := strings.ToLower(l)
		if l == "" || seen[key] {
			continue
		}
		seen[key] = true
		locs = append(locs, l)
	}
	sort.SliceStable(locs, func(i, j int) bool {
		if len(locs[i]) != len(locs[j]) {
			return len(locs[i]) > len(locs[j])
		}
		return locs[i] < locs[j]
	})
	return &Parser{locations: locs}
}

// Locations returns the gazetteer in match order.
func (p *Parser) Locations() []string {
	out := make([]string, len(p.locations))
	copy(out, p.locations)
	return out
}

// Parse extracts a filter from text. Unrecognized fragments are ignored.
func (p *Parser) Parse(text string, ref civil.Date) model.QueryFilter {
	var f model.QueryFilter
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return f
	}

	if from, to, ok := parseDates(lower, ref); ok {
		f.DateFrom, f.DateTo = &from, &to
	}

	if m := categoryRe.FindStringSubmatch(lower); m != nil {
		if m[1] != "" {
			f.Category = model.Category("U" + m[1])
		} else {
			f.Category = model.CategoryAdults
		}
	}

	if m := typeRe.FindStringSubmatch(lower); m != nil {
		f.Type, _ = model.ParseTournamentType(m[1])
	}

	f.Location = p.matchLocation(lower)
	return f
}

// Parse runs a parser without a gazetteer, so Location is never set. Use
// NewParser with the known locations to resolve place names.
func Parse(text string, ref civil.Date) model.QueryFilter {
	return NewParser(nil).Parse(text, ref)
}

// parseDates resolves relative month expressions first, then the earliest
// month name in the text that reads as a date.
func parseDates(lower string, ref civil.Date) (civil.Date, civil.Date, bool) {
	switch {
	case thisMonthRe.MatchString(lower):
		from, to := monthBounds(ref.Year, ref.Month)
		return from, to, true
	case nextMonthRe.MatchString(lower):
		y, m := ref.Year, ref.Month+1
		if m > time.December {
			y, m = y+1, time.January
		}
		from, to := monthBounds(y, m)
		return from, to, true
	}

	name := ""
	for _, loc := range monthRe.FindAllStringSubmatchIndex(lower, -1) {
		word := lower[loc[2]:loc[3]]
		if ambiguousMonth[word] && !monthLeadRe.MatchString(lower[:loc[0]]) && !monthTrailRe.MatchString(lower[loc[1]:]) {
			continue
		}
		name = word
		break
	}
	if name == "" {
		return civil.Date{}, civil.Date{}, false
	}
	month := monthsByName[name]
	year := ref.Year
	if month < ref.Month {
		year++
	}
	from, to := monthBounds(year, month)
	return from, to, true
}

func monthBounds(year int, month time.Month) (civil.Date, civil.Date) {
	first := civil.Date{Year: year, Month: month, Day: 1}
	last := civil.DateOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))
	return first, last
}

// matchLocation returns the canonical spelling of the first gazetteer entry
// found in text on word boundaries.
func (p *Parser) matchLocation(lower string) string {
	for _, loc := range p.locations {
		needle := strings.ToLower(loc)
		for start := 0; start < len(lower); {
			idx := strings.Index(lower[start:], needle)
			if idx < 0 {
				break
			}
			idx += start
			end := idx + len(needle)
			if isBoundary(lower, idx-1) && isBoundary(lower, end) {
				return loc
			}
			start = idx + 1
		}
	}
	return ""
}

func isBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c >= 0x80)
}
