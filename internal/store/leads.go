package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Lead is a write-only consultation request captured from the lead form.
// The payload is an open mapping; the core records it without validating its
// shape beyond presence.
type Lead struct {
	BrandID   string
	ProductID *string
	Payload   map[string]any
	Consent   bool
	CreatedAt time.Time
}

// InsertLead inserts a single lead row. There is no update or delete path.
func (s *Store) InsertLead(ctx context.Context, lead Lead) error {
	payload, err := json.Marshal(lead.Payload)
	if err != nil {
		return fmt.Errorf("InsertLead: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO leads (brand_id, product_id, payload, consent, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		lead.BrandID, lead.ProductID, payload, lead.Consent, lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("InsertLead: %w", err)
	}
	return nil
}
