package storage

import (
	"context"

	"sipeta/models"
)

// ListingWriter is the interface any export or persistence backend must satisfy.
type ListingWriter interface {
	Write(listings []models.Listing) error
	Close() error
}

// ListingStore is a backend the dataset can be loaded from.
type ListingStore interface {
	FetchAll(ctx context.Context) ([]models.Listing, error)
	Close() error
}

var (
	_ ListingWriter = (*CSVWriter)(nil)
	_ ListingWriter = (*PostgresStore)(nil)
	_ ListingStore  = (*PostgresStore)(nil)
)

// WriteAll writes listings to w and closes it. w is closed on error too.
func WriteAll(w ListingWriter, listings []models.Listing) error {
	if err := w.Write(listings); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
