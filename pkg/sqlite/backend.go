// Package sqlite exposes the factory for the SQLite-backed store while
// keeping the implementation internal.
package sqlite

import (
	"github.com/rs/zerolog"

	internal "github.com/mesh-intelligence/arbor/internal/sqlite"
	"github.com/mesh-intelligence/arbor/pkg/types"
)

// Option configures a backend created by NewBackend.
type Option = internal.Option

// WithLogger attaches a zerolog logger to the backend.
func WithLogger(log zerolog.Logger) Option {
	return internal.WithLogger(log)
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".arbor-db",
//	})
//	defer backend.Detach()
func NewBackend(opts ...Option) types.Store {
	return internal.NewBackend(opts...)
}
