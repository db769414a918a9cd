// Package store persists diagram documents.
//
// A [Document] wraps a [diagram.Graph] with an id, a display name and a
// modification time. Four backends implement [Store]:
//   - memory: in-process map for tests and single-shot CLI runs
//   - file: one JSON file per document under a directory
//   - redis: JSON values plus a sorted-set index
//   - mongo: one BSON document per diagram
//
// [Open] selects a backend from configuration and wraps it so every call is
// bounded by the configured timeout and reported to the store hooks in
// [observability].
//
// The interaction engine never touches a store: hosts load a document, open
// an editing session on its graph and save the graph back explicitly.
package store

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/matzehuels/swimlane/pkg/diagram"
	errs "github.com/matzehuels/swimlane/pkg/errors"
)

// Document is a persisted diagram.
type Document struct {
	ID        string         `json:"id" bson:"_id"`
	Name      string         `json:"name,omitempty" bson:"name,omitempty"`
	Graph     *diagram.Graph `json:"graph" bson:"graph"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// Summary describes a document without its graph.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Summary returns the document's summary.
func (d *Document) Summary() Summary {
	return Summary{ID: d.ID, Name: d.Name, UpdatedAt: d.UpdatedAt}
}

// Store is the interface for diagram document backends.
type Store interface {
	// Get returns the document with the given id, or a DIAGRAM_NOT_FOUND
	// error.
	Get(ctx context.Context, id string) (*Document, error)

	// Put creates or replaces a document. UpdatedAt is set by the store.
	Put(ctx context.Context, doc *Document) error

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error

	// List returns summaries of all documents sorted by id.
	List(ctx context.Context) ([]Summary, error)

	// Close releases backend resources.
	Close() error
}

// Check validates a document before it is written.
func Check(doc *Document) error {
	if doc == nil {
		return errs.New(errs.ErrCodeInvalidInput, "document is nil")
	}
	if err := errs.ValidateID(doc.ID); err != nil {
		return err
	}
	if doc.Name != "" {
		if err := errs.ValidateName(doc.Name); err != nil {
			return err
		}
	}
	if doc.Graph == nil {
		return errs.New(errs.ErrCodeInvalidInput, "document %s has no graph", doc.ID)
	}
	return doc.Graph.Validate()
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeDiagramNotFound, "diagram %s not found", id)
}

func storageErr(err error, format string, args ...any) error {
	return errs.Wrap(errs.ErrCodeStorage, err, format, args...)
}

func encode(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, storageErr(err, "encode diagram %s", doc.ID)
	}
	return data, nil
}

func decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, storageErr(err, "decode diagram")
	}
	if doc.Graph == nil {
		doc.Graph = diagram.New()
	}
	return &doc, nil
}

func sortSummaries(out []Summary) []Summary {
	slices.SortFunc(out, func(a, b Summary) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// now is truncated to milliseconds, the resolution of a BSON datetime.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
