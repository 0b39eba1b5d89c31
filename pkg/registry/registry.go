// Package registry records which masks were generated, from which design
// and with which device parameters, so a fabricated chip can be traced back
// to its exact layout.
//
// Backends:
//   - [MemoryStore]: tests and the HTTP server without persistence
//   - [FileStore]: one JSON file per run under ~/.config/maskgen/runs
//   - [MongoStore]: a shared lab database
//
// [Open] picks a backend from a URI.
package registry

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/maskgen/pkg/device"
	"github.com/matzehuels/maskgen/pkg/errors"
)

// Run is one generated mask.
type Run struct {
	ID        string    `json:"id" bson:"_id"`
	Design    string    `json:"design" bson:"design"`
	Hash      string    `json:"hash" bson:"hash"`
	Output    string    `json:"output,omitempty" bson:"output,omitempty"`
	TopCell   string    `json:"top_cell" bson:"top_cell"`
	Devices   []Device  `json:"devices" bson:"devices"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Device is the record of one placed device.
type Device struct {
	Cell  string      `json:"cell" bson:"cell"`
	Kind  string      `json:"kind" bson:"kind"`
	Label string      `json:"label,omitempty" bson:"label,omitempty"`
	Spec  device.Spec `json:"spec" bson:"spec"`
}

// NewRun creates a run record with a fresh ID.
func NewRun(design, hash, topCell string, devices []*device.Device) *Run {
	r := &Run{
		ID:        uuid.NewString(),
		Design:    design,
		Hash:      hash,
		TopCell:   topCell,
		CreatedAt: time.Now().UTC(),
	}
	for _, d := range devices {
		r.Devices = append(r.Devices, Device{Cell: d.Cell, Kind: string(d.Spec.Kind), Label: d.Label, Spec: d.Spec})
	}
	return r
}

// Store persists runs.
type Store interface {
	// Save inserts or replaces a run.
	Save(ctx context.Context, r *Run) error

	// Get returns the run with the given ID, or an ErrCodeNotFound error.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*Run, error)

	Close() error
}

// ValidateID checks that id is a UUID so it is safe to use as a file name.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid run id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "run %s not found", id)
}

// Open returns the store for uri:
//
//	""             -> FileStore in the default directory
//	"memory"       -> MemoryStore
//	"file:<dir>"   -> FileStore in dir
//	"mongodb://…"  -> MongoStore (database "maskgen")
func Open(ctx context.Context, uri string) (Store, error) {
	switch {
	case uri == "":
		return NewFileStore("")
	case uri == "memory":
		return NewMemoryStore(), nil
	case strings.HasPrefix(uri, "file:"):
		return NewFileStore(strings.TrimPrefix(uri, "file:"))
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return NewMongoStore(ctx, MongoConfig{URI: uri})
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported registry uri %q", uri)
}
