package dto

import (
	"strings"
	"time"

	helper "academykit_backend/internals/helpers"
)

type ListQuery struct {
	Level string `query:"level"`
	From  string `query:"from"`
	To    string `query:"to"`
}

func (q *ListQuery) Normalize() { q.Level = strings.ToLower(strings.TrimSpace(q.Level)) }

// parseBound accepts RFC3339 or a plain date. A plain "to" date covers the whole day.
func parseBound(field, v string, endOfDay bool) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, helper.ErrFieldValidation(field, field+" must be a date or RFC3339 time")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// Range returns the parsed time window.
func (q ListQuery) Range() (from, to *time.Time, err error) {
	if from, err = parseBound("from", q.From, false); err != nil {
		return nil, nil, err
	}
	if to, err = parseBound("to", q.To, true); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, helper.ErrFieldValidation("to", "to must not be before from")
	}
	return from, to, nil
}
