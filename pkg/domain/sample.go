// Package domain defines the plant sample record, its request payloads, and
// the persistence contract shared by all storage backends.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PlantSample is one collected specimen record as stored and served.
// The three structured fields are kept as raw JSON so the stored serialized
// form round-trips through the API unchanged.
type PlantSample struct {
	SampleID                int64           `json:"sample_id"`
	DateOfSampling          string          `json:"date_of_sampling"`
	PlantSampleDetail       json.RawMessage `json:"plant_sample_detail"`
	SamplingLocation        json.RawMessage `json:"sampling_location"`
	EnvironmentalConditions json.RawMessage `json:"environmental_conditions"`
	LocationID              int64           `json:"location_id"`
	ResearcherID            int64           `json:"researcher_id"`
}

// Assignment pairs a column with the positional value bound to it. Stores
// consume assignments in the order produced, so column lists and value lists
// stay aligned.
type Assignment struct {
	Column string
	Value  any
}

type fieldKind int

const (
	kindDate fieldKind = iota
	kindJSON
	kindInteger
)

// sampleColumns fixes the canonical order of the non-id columns. Every
// statement touching them iterates this slice, never the request map.
var sampleColumns = []struct {
	name string
	kind fieldKind
}{
	{"date_of_sampling", kindDate},
	{"plant_sample_detail", kindJSON},
	{"sampling_location", kindJSON},
	{"environmental_conditions", kindJSON},
	{"location_id", kindInteger},
	{"researcher_id", kindInteger},
}

// Columns returns the canonical non-id column order used by the stores.
func Columns() []string {
	out := make([]string, len(sampleColumns))
	for i, c := range sampleColumns {
		out[i] = c.name
	}
	return out
}

// SampleInput is a create payload. All six fields are required; raw JSON
// slots let presence be checked before any value conversion happens.
type SampleInput struct {
	DateOfSampling          json.RawMessage `json:"date_of_sampling"`
	PlantSampleDetail       json.RawMessage `json:"plant_sample_detail"`
	SamplingLocation        json.RawMessage `json:"sampling_location"`
	EnvironmentalConditions json.RawMessage `json:"environmental_conditions"`
	LocationID              json.RawMessage `json:"location_id"`
	ResearcherID            json.RawMessage `json:"researcher_id"`
}

func (in SampleInput) raw(column string) json.RawMessage {
	switch column {
	case "date_of_sampling":
		return in.DateOfSampling
	case "plant_sample_detail":
		return in.PlantSampleDetail
	case "sampling_location":
		return in.SamplingLocation
	case "environmental_conditions":
		return in.EnvironmentalConditions
	case "location_id":
		return in.LocationID
	case "researcher_id":
		return in.ResearcherID
	}
	return nil
}

// Validate reports a ValidationError when any required field is absent.
func (in SampleInput) Validate() error {
	for _, c := range sampleColumns {
		if in.raw(c.name) == nil {
			return ValidationError{Reason: "Missing required fields"}
		}
	}
	return nil
}

// Assignments converts the payload into column/value pairs in canonical
// order. Validate must pass first.
func (in SampleInput) Assignments() ([]Assignment, error) {
	out := make([]Assignment, 0, len(sampleColumns))
	for _, c := range sampleColumns {
		value, err := convertField(c.name, c.kind, in.raw(c.name))
		if err != nil {
			return nil, err
		}
		out = append(out, Assignment{Column: c.name, Value: value})
	}
	return out, nil
}

// SamplePatch is a partial update payload. A nil slot means the key was
// absent from the request and the column is left untouched; a present null
// sets the column to NULL. json.RawMessage preserves exactly that
// distinction through decoding.
type SamplePatch struct {
	DateOfSampling          json.RawMessage `json:"date_of_sampling"`
	PlantSampleDetail       json.RawMessage `json:"plant_sample_detail"`
	SamplingLocation        json.RawMessage `json:"sampling_location"`
	EnvironmentalConditions json.RawMessage `json:"environmental_conditions"`
	LocationID              json.RawMessage `json:"location_id"`
	ResearcherID            json.RawMessage `json:"researcher_id"`
}

func (p SamplePatch) raw(column string) json.RawMessage {
	switch column {
	case "date_of_sampling":
		return p.DateOfSampling
	case "plant_sample_detail":
		return p.PlantSampleDetail
	case "sampling_location":
		return p.SamplingLocation
	case "environmental_conditions":
		return p.EnvironmentalConditions
	case "location_id":
		return p.LocationID
	case "researcher_id":
		return p.ResearcherID
	}
	return nil
}

// IsEmpty reports whether the patch names none of the recognized columns.
func (p SamplePatch) IsEmpty() bool {
	for _, c := range sampleColumns {
		if p.raw(c.name) != nil {
			return false
		}
	}
	return true
}

// Assignments yields one column/value pair per field present in the patch,
// in canonical column order. Absent fields contribute nothing; an empty
// patch yields an empty slice.
func (p SamplePatch) Assignments() ([]Assignment, error) {
	var out []Assignment
	for _, c := range sampleColumns {
		raw := p.raw(c.name)
		if raw == nil {
			continue
		}
		value, err := convertField(c.name, c.kind, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, Assignment{Column: c.name, Value: value})
	}
	return out, nil
}

var jsonNull = []byte("null")

func convertField(column string, kind fieldKind, raw json.RawMessage) (any, error) {
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return nil, nil
	}
	switch kind {
	case kindDate:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, ValidationError{Reason: fmt.Sprintf("%s must be a string", column)}
		}
		return s, nil
	case kindJSON:
		// Structured fields are stored as serialized text and replaced
		// wholesale; the raw request bytes are the storage representation.
		return string(raw), nil
	case kindInteger:
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, ValidationError{Reason: fmt.Sprintf("%s must be an integer", column)}
		}
		return n, nil
	}
	return nil, fmt.Errorf("unknown field kind for column %s", column)
}
