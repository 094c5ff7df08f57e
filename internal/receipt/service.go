package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"receiptscan/internal/extraction"
)

// ErrInvalidFileType is returned for uploads outside the accepted image types
// before any model call is made.
var ErrInvalidFileType = errors.New("invalid file type: only .jpg, .jpeg, and .png files are allowed")

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// uuidGenerator generates IDs using random UUIDs
type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

// Service orchestrates the extraction pipeline
type Service struct {
	db          DB
	extractor   extraction.Extractor
	storage     Storage
	idGenerator IDGenerator
}

// NewService creates a new Service with the default ID generator
func NewService(db DB, extractor extraction.Extractor, storage Storage) *Service {
	return &Service{
		db:          db,
		extractor:   extractor,
		storage:     storage,
		idGenerator: uuidGenerator{},
	}
}

// NewServiceWithDeps creates a new Service with a custom ID generator for testing
func NewServiceWithDeps(db DB, extractor extraction.Extractor, storage Storage, idGen IDGenerator) *Service {
	return &Service{
		db:          db,
		extractor:   extractor,
		storage:     storage,
		idGenerator: idGen,
	}
}

// ExtractReceipt runs the extraction pipeline for a single uploaded image:
// mime gate, model call, JSON extraction, schema validation, then image and
// record persistence, in that order. The first failing stage aborts the rest;
// nothing is written to storage before validation passes. The image write is
// not rolled back if the record write fails afterwards.
func (s *Service) ExtractReceipt(ctx context.Context, filename string, data []byte, mimeType string) (*Receipt, error) {
	if !allowedMimeTypes[mimeType] {
		return nil, ErrInvalidFileType
	}

	rawText, err := s.extractor.Extract(ctx, data, mimeType)
	if err != nil {
		slog.Error("model invocation failed",
			"filename", filename,
			"content_type", mimeType,
			"file_size", len(data),
			"error", err,
		)
		return nil, err
	}

	candidate, err := extraction.ExtractJSON(rawText)
	if err != nil {
		return nil, err
	}

	extracted, err := extraction.Validate(candidate)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.storage.Save(filename, data)
	if err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}

	items := make([]ReceiptItem, 0, len(extracted.Items))
	for _, item := range extracted.Items {
		items = append(items, ReceiptItem{ItemName: item.ItemName, ItemCost: item.ItemCost})
	}

	receipt := &Receipt{
		ID:           s.idGenerator.Generate(),
		Date:         extracted.Date,
		Currency:     extracted.Currency,
		VendorName:   extracted.VendorName,
		ReceiptItems: items,
		Tax:          roundAmount(extracted.Tax),
		Total:        roundAmount(extracted.Total),
		ImageURL:     imageURL,
	}

	if err := s.db.SaveReceipt(receipt); err != nil {
		return nil, fmt.Errorf("saving receipt: %w", err)
	}

	return receipt, nil
}

// GetReceipt retrieves a receipt by ID
func (s *Service) GetReceipt(id string) (*Receipt, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return receipt, nil
}

// ListReceipts returns all receipts
func (s *Service) ListReceipts() ([]*Receipt, error) {
	receipts, err := s.db.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return receipts, nil
}

// GetImage retrieves stored image bytes by reference
func (s *Service) GetImage(reference string) ([]byte, error) {
	data, err := s.storage.Get(reference)
	if err != nil {
		return nil, fmt.Errorf("getting image: %w", err)
	}
	return data, nil
}

// roundAmount applies fixed-point (two decimal) semantics to money amounts.
func roundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}
