// Package export defines the on-disk format of exported invoice line items and a
// file-backed sink.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/diewo77/go-facturation/internal/models"
)

const (
	// Format identifies line-item exports.
	Format = "facturation.lineitems"
	// Version is bumped whenever the field set changes.
	Version = 1
)

// Document is the envelope written for every export. Field names and order are the
// contract; they do not follow the in-memory representation.
type Document struct {
	Format    string                    `json:"format"`
	Version   int                       `json:"version"`
	Invoice   int64                     `json:"invoice"`
	CreatedAt time.Time                 `json:"created_at"`
	Items     []models.LineItemSnapshot `json:"items"`
}

// NewDocument wraps a snapshot in the export envelope.
func NewDocument(s models.Snapshot) Document {
	items := s.Items
	if items == nil {
		items = []models.LineItemSnapshot{}
	}
	return Document{
		Format:    Format,
		Version:   Version,
		Invoice:   s.InvoiceNumber,
		CreatedAt: s.CreatedAt,
		Items:     items,
	}
}

// Encode writes the snapshot as an indented JSON document.
func Encode(w io.Writer, s models.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(s)); err != nil {
		return fmt.Errorf("encode invoice %d: %w", s.InvoiceNumber, err)
	}
	return nil
}

// Marshal returns the encoded document.
func Marshal(s models.Snapshot) ([]byte, error) {
	b, err := json.Marshal(NewDocument(s))
	if err != nil {
		return nil, fmt.Errorf("encode invoice %d: %w", s.InvoiceNumber, err)
	}
	return b, nil
}

// FileSink writes each snapshot to its own file. With Path set every export goes to
// that file; otherwise files are named facture-<number>.json under Dir.
type FileSink struct {
	Dir  string
	Path string
}

// PathFor returns the file a snapshot of the given invoice is written to.
func (s FileSink) PathFor(invoice int64) string {
	if s.Path != "" {
		return s.Path
	}
	return filepath.Join(s.Dir, fmt.Sprintf("facture-%d.json", invoice))
}

// WriteSnapshot implements models.Sink. The file is written to a temporary name
// then renamed so readers never see a partial export.
func (s FileSink) WriteSnapshot(ctx context.Context, snap models.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.PathFor(snap.InvoiceNumber)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".facture-*.tmp")
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, snap); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// MultiSink writes to every sink in order and stops at the first error.
type MultiSink []models.Sink

func (m MultiSink) WriteSnapshot(ctx context.Context, snap models.Snapshot) error {
	for _, s := range m {
		if err := s.WriteSnapshot(ctx, snap); err != nil {
			return err
		}
	}
	return nil
}
