package handler

import (
	"net/http"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/courtside/academy-recommender/internal/model"
)

// dateParam reads an optional YYYY-MM-DD query parameter.
func dateParam(r *http.Request, name string) (*civil.Date, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(raw)
	if err != nil {
		return nil, &model.ValidationError{Field: name, Value: raw, Message: "expected YYYY-MM-DD"}
	}
	return &d, nil
}

// referenceDate returns the named date parameter or today.
func (h *Handler) referenceDate(r *http.Request, name string) (civil.Date, error) {
	d, err := dateParam(r, name)
	if err != nil {
		return civil.Date{}, err
	}
	if d == nil {
		return h.today(), nil
	}
	return *d, nil
}

// maxParam reads "max". Absent means 0 (engine default); present values must
// be positive integers.
func maxParam(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("max"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, &model.ValidationError{Field: "max", Value: raw, Message: "must be a positive integer"}
	}
	return n, nil
}

// explicitFilter reads the structured filter parameters. They override
// whatever the free-text query produced.
func explicitFilter(r *http.Request) (model.QueryFilter, error) {
	var f model.QueryFilter
	q := r.URL.Query()

	from, err := dateParam(r, "date_from")
	if err != nil {
		return f, err
	}
	to, err := dateParam(r, "date_to")
	if err != nil {
		return f, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return f, &model.ValidationError{Field: "date_to", Value: to.String(), Message: "before date_from"}
	}
	f.DateFrom, f.DateTo = from, to

	if raw := q.Get("category"); raw != "" {
		c, ok := model.ParseCategory(raw)
		if !ok {
			return f, &model.ValidationError{Field: "category", Value: raw, Message: "expected U12, U14, U16, U18 or Adults"}
		}
		f.Category = c
	}
	if raw := q.Get("type"); raw != "" {
		t, ok := model.ParseTournamentType(raw)
		if !ok {
			return f, &model.ValidationError{Field: "type", Value: raw, Message: "expected international, national or proximity"}
		}
		f.Type = t
	}
	f.Location = strings.TrimSpace(q.Get("location"))
	return f, nil
}
