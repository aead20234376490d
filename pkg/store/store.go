// Package store persists named disposition presets.
//
// A preset is a disposition kind plus its options, saved under a name so the
// CLI and the HTTP server can impose with "--preset octavo-a5" instead of a
// full signature file. Three backends implement [Store]:
//   - [MemoryStore]: process-local, used by tests and the default server
//   - [FileStore]: one JSON file per preset, used by the CLI
//   - [MongoStore]: MongoDB collection shared between server instances
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/laidout/impose/pkg/disposition"
	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/net"
	"github.com/laidout/impose/pkg/signature"
)

// Preset is a saved disposition configuration.
type Preset struct {
	ID          string              `json:"id" bson:"_id"`
	Name        string              `json:"name" bson:"name"`
	Description string              `json:"description,omitempty" bson:"description,omitempty"`
	Kind        string              `json:"kind" bson:"kind"`
	Options     disposition.Options `json:"options" bson:"options"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
}

// Validate checks the name and that the options build a disposition.
func (p *Preset) Validate() error {
	if err := errors.ValidatePresetName(p.Name); err != nil {
		return err
	}
	_, err := p.Disposition()
	return err
}

// Disposition builds the preset's disposition.
func (p *Preset) Disposition() (disposition.Disposition, error) {
	return disposition.New(p.Kind, p.Options)
}

// Store reads and writes presets by name.
type Store interface {
	// Get returns the preset or a NOT_FOUND error.
	Get(ctx context.Context, name string) (*Preset, error)
	// Put validates and inserts or replaces p, filling ID and timestamps.
	Put(ctx context.Context, p *Preset) error
	// Delete removes a preset; deleting a missing name is a NOT_FOUND error.
	Delete(ctx context.Context, name string) error
	// List returns all presets sorted by name.
	List(ctx context.Context) ([]*Preset, error)
	Close() error
}

// stamp fills the generated fields of p before it is written. prev is the
// stored preset of the same name, if any.
func stamp(p, prev *Preset, now time.Time) {
	if prev != nil {
		p.ID = prev.ID
		p.CreatedAt = prev.CreatedAt
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeNotFound, "preset %q not found", name)
}

// Builtins returns presets for the built-in signatures and nets, plus plain
// singles and booklet presets on letter paper.
func Builtins() []*Preset {
	out := []*Preset{
		{Name: "singles", Kind: "singles", Description: "one page per sheet"},
		{Name: "booklet", Kind: "booklet", Description: "two pages per side, saddle stitched"},
	}
	for _, name := range signature.BuiltinNames() {
		sig, err := signature.Builtin(name)
		if err != nil {
			continue
		}
		out = append(out, &Preset{
			Name:        "sig-" + name,
			Kind:        "signature",
			Description: sig.Description,
			Options:     disposition.Options{Signature: &sig},
		})
	}
	for _, name := range net.BuiltinNames() {
		out = append(out, &Preset{
			Name:        "net-" + name,
			Kind:        "net",
			Description: "net of a " + name,
			Options:     disposition.Options{NetName: name, Margin: .25},
		})
	}
	return out
}

// Seed stores every built-in preset that s does not already hold.
func Seed(ctx context.Context, s Store) (int, error) {
	added := 0
	for _, p := range Builtins() {
		if _, err := s.Get(ctx, p.Name); err == nil {
			continue
		} else if !errors.Is(err, errors.ErrCodeNotFound) {
			return added, err
		}
		if err := s.Put(ctx, p); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
