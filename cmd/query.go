package main

import (
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/clientry/leadintel/internal/filter"
	"github.com/clientry/leadintel/internal/model"
)

// filterSpecFromQuery translates API query parameters into a
// filter.Spec. Absent parameters impose no constraint.
func filterSpecFromQuery(q url.Values) (filter.Spec, error) {
	spec := filter.Spec{
		Search:      q.Get("search"),
		Status:      q.Get("status"),
		Source:      q.Get("source"),
		AssignedTo:  q.Get("assigned"),
		Temperature: q.Get("temperature"),
	}

	if tags := q.Get("tags"); tags != "" {
		spec.Tags = splitTags(tags)
	}

	if raw := q.Get("min_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter.Spec{}, eris.Wrap(err, "parse min_score")
		}
		spec.ScoreMin = &v
	}
	if raw := q.Get("max_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter.Spec{}, eris.Wrap(err, "parse max_score")
		}
		spec.ScoreMax = &v
	}

	if raw := q.Get("from"); raw != "" {
		ts, err := model.ParseTimestamp(raw)
		if err != nil {
			return filter.Spec{}, eris.Wrap(err, "parse from")
		}
		spec.CreatedFrom = &ts.Time
	}
	if raw := q.Get("to"); raw != "" {
		ts, err := model.ParseTimestamp(raw)
		if err != nil {
			return filter.Spec{}, eris.Wrap(err, "parse to")
		}
		spec.CreatedTo = &ts.Time
	}

	return spec, nil
}
