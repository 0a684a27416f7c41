package loader

import (
	"log"

	"github.com/Carmen-Shannon/oxy-skel/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithSampleRate is an option builder that sets the rate at which glTF animations are resampled.
// Non-positive rates are ignored.
//
// Parameters:
//   - ticksPerSecond: the resampling rate
//
// Returns:
//   - LoaderBuilderOption: a function that applies the sample rate option to a loader
func WithSampleRate(ticksPerSecond float32) LoaderBuilderOption {
	return func(l *loader) {
		if ticksPerSecond > 0 {
			l.sampleRate = ticksPerSecond
		}
	}
}

// WithLogger is an option builder that sets the logger for load summaries.
//
// Parameters:
//   - logger: the logger; nil keeps the default
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *log.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}
