package core

import "plantcore/pkg/domain"

type (
	// PlantSample aliases domain.PlantSample for service-level operations.
	PlantSample = domain.PlantSample
	// SampleInput aliases domain.SampleInput.
	SampleInput = domain.SampleInput
	// SamplePatch aliases domain.SamplePatch.
	SamplePatch = domain.SamplePatch
	// SampleStore aliases domain.SampleStore.
	SampleStore = domain.SampleStore
	// ValidationError aliases domain.ValidationError.
	ValidationError = domain.ValidationError
	// ErrNotFound aliases domain.ErrNotFound.
	ErrNotFound = domain.ErrNotFound
	// ConnectionError aliases domain.ConnectionError.
	ConnectionError = domain.ConnectionError
)
