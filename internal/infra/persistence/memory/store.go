// Package memory provides an in-memory implementation of the sample store
// used for tests and ephemeral environments.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"plantcore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.SampleStore = (*Store)(nil)

// Store keeps samples in a map guarded by a mutex. Ids are assigned
// sequentially, mirroring the serial primary key of the SQL backends.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	samples map[int64]domain.PlantSample
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{nextID: 1, samples: make(map[int64]domain.PlantSample)}
}

// ListSamples returns every sample ordered by id.
func (s *Store) ListSamples(_ context.Context) ([]domain.PlantSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PlantSample, 0, len(s.samples))
	for _, sample := range s.samples {
		out = append(out, cloneSample(sample))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SampleID < out[j].SampleID })
	return out, nil
}

// CreateSample assigns the next id and stores the converted payload.
func (s *Store) CreateSample(_ context.Context, input domain.SampleInput) (int64, error) {
	assigns, err := input.Assignments()
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sample := domain.PlantSample{SampleID: s.nextID}
	if err := applyAssignments(&sample, assigns); err != nil {
		return 0, err
	}
	s.samples[sample.SampleID] = sample
	s.nextID++
	return sample.SampleID, nil
}

// GetSample returns the sample with the given id.
func (s *Store) GetSample(_ context.Context, id int64) (domain.PlantSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sample, ok := s.samples[id]
	if !ok {
		return domain.PlantSample{}, domain.ErrNotFound{ID: id}
	}
	return cloneSample(sample), nil
}

// UpdateSample replaces exactly the columns named by the patch.
func (s *Store) UpdateSample(_ context.Context, id int64, patch domain.SamplePatch) error {
	assigns, err := patch.Assignments()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sample, ok := s.samples[id]
	if !ok {
		return domain.ErrNotFound{ID: id}
	}
	if err := applyAssignments(&sample, assigns); err != nil {
		return err
	}
	s.samples[id] = sample
	return nil
}

// DeleteSample removes the sample with the given id.
func (s *Store) DeleteSample(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.samples[id]; !ok {
		return domain.ErrNotFound{ID: id}
	}
	delete(s.samples, id)
	return nil
}

// Close is a no-op for the in-memory backend.
func (s *Store) Close() error { return nil }

func applyAssignments(sample *domain.PlantSample, assigns []domain.Assignment) error {
	for _, a := range assigns {
		switch a.Column {
		case "date_of_sampling":
			sample.DateOfSampling, _ = a.Value.(string)
		case "plant_sample_detail":
			sample.PlantSampleDetail = rawValue(a.Value)
		case "sampling_location":
			sample.SamplingLocation = rawValue(a.Value)
		case "environmental_conditions":
			sample.EnvironmentalConditions = rawValue(a.Value)
		case "location_id":
			sample.LocationID, _ = a.Value.(int64)
		case "researcher_id":
			sample.ResearcherID, _ = a.Value.(int64)
		}
	}
	return nil
}

func rawValue(v any) json.RawMessage {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return json.RawMessage(s)
}

func cloneSample(s domain.PlantSample) domain.PlantSample {
	out := s
	out.PlantSampleDetail = append(json.RawMessage(nil), s.PlantSampleDetail...)
	out.SamplingLocation = append(json.RawMessage(nil), s.SamplingLocation...)
	out.EnvironmentalConditions = append(json.RawMessage(nil), s.EnvironmentalConditions...)
	return out
}
