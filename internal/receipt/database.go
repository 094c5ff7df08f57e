package receipt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.etcd.io/bbolt"
)

const bucketName = "receipts"

// DB defines the interface for record store operations
type DB interface {
	// SaveReceipt persists a fully validated receipt
	SaveReceipt(receipt *Receipt) error

	// GetReceipt retrieves a receipt by ID
	GetReceipt(id string) (*Receipt, error)

	// ListReceipts returns all receipts
	ListReceipts() ([]*Receipt, error)

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// storedReceipt is the on-disk form of a receipt. Tax and total are stored as
// fixed two-decimal strings, the way a decimal column would hold them, and
// coerced back to numbers on every read so callers never see string amounts.
type storedReceipt struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Currency     string        `json:"currency"`
	VendorName   string        `json:"vendor_name"`
	ReceiptItems []ReceiptItem `json:"receipt_items"`
	Tax          string        `json:"tax"`
	Total        string        `json:"total"`
	ImageURL     string        `json:"image_url"`
}

func toStored(r *Receipt) *storedReceipt {
	return &storedReceipt{
		ID:           r.ID,
		Date:         r.Date,
		Currency:     r.Currency,
		VendorName:   r.VendorName,
		ReceiptItems: r.ReceiptItems,
		Tax:          strconv.FormatFloat(r.Tax, 'f', 2, 64),
		Total:        strconv.FormatFloat(r.Total, 'f', 2, 64),
		ImageURL:     r.ImageURL,
	}
}

func fromStored(s *storedReceipt) (*Receipt, error) {
	tax, err := strconv.ParseFloat(s.Tax, 64)
	if err != nil {
		return nil, fmt.Errorf("coercing stored tax: %w", err)
	}
	total, err := strconv.ParseFloat(s.Total, 64)
	if err != nil {
		return nil, fmt.Errorf("coercing stored total: %w", err)
	}
	return &Receipt{
		ID:           s.ID,
		Date:         s.Date,
		Currency:     s.Currency,
		VendorName:   s.VendorName,
		ReceiptItems: s.ReceiptItems,
		Tax:          tax,
		Total:        total,
		ImageURL:     s.ImageURL,
	}, nil
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveReceipt persists a receipt to the database
func (b *BoltDB) SaveReceipt(receipt *Receipt) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		data, err := json.Marshal(toStored(receipt))
		if err != nil {
			return fmt.Errorf("marshaling receipt: %w", err)
		}
		return bucket.Put([]byte(receipt.ID), data)
	})
}

// GetReceipt retrieves a receipt by ID
func (b *BoltDB) GetReceipt(id string) (*Receipt, error) {
	var receipt *Receipt
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("receipt not found: %s", id)
		}
		var stored storedReceipt
		if err := json.Unmarshal(data, &stored); err != nil {
			return fmt.Errorf("unmarshaling receipt: %w", err)
		}
		var err error
		receipt, err = fromStored(&stored)
		return err
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListReceipts returns all receipts
func (b *BoltDB) ListReceipts() ([]*Receipt, error) {
	receipts := make([]*Receipt, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var stored storedReceipt
			if err := json.Unmarshal(v, &stored); err != nil {
				return fmt.Errorf("unmarshaling receipt: %w", err)
			}
			receipt, err := fromStored(&stored)
			if err != nil {
				return err
			}
			receipts = append(receipts, receipt)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
