package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/auro-editor/auro/internal/document"
	"github.com/auro-editor/auro/internal/export"
	"github.com/auro-editor/auro/internal/storage"
	"github.com/auro-editor/auro/internal/typeid"
)

var (
	ErrNotFound        = storage.ErrNotFound
	ErrForbidden       = errors.New("forbidden")
	ErrUnknownTemplate = errors.New("unknown template")
)

// Templates a new document can start from.
const (
	TemplateBlank  = "blank"
	TemplateReport = "report"
)

type Service struct {
	store    storage.DocumentStore
	exporter *export.Exporter
}

func NewService(store storage.DocumentStore, exporter *export.Exporter) *Service {
	return &Service{store: store, exporter: exporter}
}

func (s *Service) Create(ctx context.Context, name, template, ownerID string) (*storage.Meta, error) {
	var seed *document.Data
	switch template {
	case "", TemplateBlank:
		seed = document.NewEmptyDocument()
	case TemplateReport:
		seed = document.NewSampleDocument()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, template)
	}

	blob, err := document.Encode(seed)
	if err != nil {
		return nil, fmt.Errorf("encode seed document: %w", err)
	}

	meta, err := s.store.Create(ctx, typeid.NewDocumentID(), ownerID, name, blob)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	slog.Info("document created", "document", meta.ID, "owner", ownerID, "template", template)
	return meta, nil
}

// Get returns the document if userID owns it.
func (s *Service) Get(ctx context.Context, id, userID string) (*storage.Meta, error) {
	meta, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if meta.OwnerID != userID {
		return nil, ErrForbidden
	}
	return meta, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]storage.Meta, error) {
	docs, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if docs == nil {
		docs = []storage.Meta{}
	}
	return docs, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// Load returns the latest saved content, decoded and validated.
func (s *Service) Load(ctx context.Context, id, userID string) (*document.Data, int, error) {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return nil, 0, err
	}
	blob, version, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	d, err := document.Decode(blob)
	if err != nil {
		return nil, 0, fmt.Errorf("document %s v%d: %w", id, version, err)
	}
	return d, version, nil
}

// SaveRaw validates a project blob and stores its normalized form as a
// new revision.
func (s *Service) SaveRaw(ctx context.Context, id, userID string, blob []byte) (int, error) {
	d, err := document.Decode(blob)
	if err != nil {
		return 0, err
	}
	return s.Save(ctx, id, userID, d)
}

func (s *Service) Save(ctx context.Context, id, userID string, d *document.Data) (int, error) {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return 0, err
	}
	blob, err := document.Encode(d)
	if err != nil {
		return 0, fmt.Errorf("encode document: %w", err)
	}
	version, err := s.store.Save(ctx, id, blob)
	if err != nil {
		return 0, fmt.Errorf("save document: %w", err)
	}
	slog.Debug("document saved", "document", id, "version", version)
	return version, nil
}

// Export renders the latest saved content.
func (s *Service) Export(ctx context.Context, id, userID string, f export.Format) ([]byte, int, error) {
	d, _, err := s.Load(ctx, id, userID)
	if err != nil {
		return nil, 0, err
	}
	out, err := s.exporter.Export(f, d)
	if err != nil {
		return nil, 0, err
	}
	return out, d.CurrentPage, nil
}
