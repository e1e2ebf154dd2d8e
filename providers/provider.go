package providers

import (
	"context"

	"audiobot/services"
)

// Provider ist das Interface, das jede News-Quelle implementieren muss.
type Provider interface {
	// Search sucht und extrahiert Roh-Artikel zu einer Query und gibt
	// standardisierte Seed-Items für die Batch-Verarbeitung zurück.
	Search(ctx context.Context, query string, maxResults int) ([]services.SeedItem, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "parallel").
	Name() string
}
