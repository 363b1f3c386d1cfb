package scryfall

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"
)

const (
	// MaxBatchSize is the maximum number of cards per batch request (Scryfall limit is 75).
	MaxBatchSize = 75

	// batchConcurrency bounds in-flight collection requests. The shared rate
	// limiter still spaces them out.
	batchConcurrency = 4
)

// CardIdentifier represents a card identifier for the /cards/collection endpoint.
type CardIdentifier struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name,omitempty"`
	Set             string `json:"set,omitempty"`              // requires collector_number
	CollectorNumber string `json:"collector_number,omitempty"` // requires set
}

// CollectionRequest is the request body for /cards/collection.
type CollectionRequest struct {
	Identifiers []CardIdentifier `json:"identifiers"`
}

// CollectionResponse is the response from /cards/collection.
type CollectionResponse struct {
	Object   string           `json:"object"`
	NotFound []CardIdentifier `json:"not_found"`
	Data     []Card           `json:"data"`
}

// GetCardsByNames resolves names through /cards/collection in batches of 75.
// Batches run concurrently; the returned cards and misses keep the order of
// the input names.
func (c *Client) GetCardsByNames(ctx context.Context, names []string) ([]Card, []string, error) {
	if len(names) == 0 {
		return []Card{}, nil, nil
	}

	identifiers := make([]CardIdentifier, len(names))
	for i, name := range names {
		identifiers[i] = CardIdentifier{Name: name}
	}

	cards, missing, err := c.GetCollection(ctx, identifiers)
	if err != nil {
		return nil, nil, err
	}

	notFound := make([]string, 0, len(missing))
	for _, id := range missing {
		notFound = append(notFound, id.Name)
	}
	return cards, notFound, nil
}

// GetCollection fetches cards for arbitrary identifiers, batching and
// preserving order like GetCardsByNames.
func (c *Client) GetCollection(ctx context.Context, identifiers []CardIdentifier) ([]Card, []CardIdentifier, error) {
	if len(identifiers) == 0 {
		return []Card{}, nil, nil
	}

	var batches [][]CardIdentifier
	for i := 0; i < len(identifiers); i += MaxBatchSize {
		end := min(i+MaxBatchSize, len(identifiers))
		batches = append(batches, identifiers[i:end])
	}

	results := make([]CollectionResponse, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, batch := range batches {
		g.Go(func() error {
			var resp CollectionResponse
			err := c.do(gctx, http.MethodPost, "/cards/collection", nil, CollectionRequest{Identifiers: batch}, &resp)
			if err != nil {
				start := i * MaxBatchSize
				return fmt.Errorf("failed to fetch batch %d-%d: %w", start, start+len(batch), err)
			}
			results[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	cards := []Card{}
	var notFound []CardIdentifier
	for _, r := range results {
		cards = append(cards, r.Data...)
		notFound = append(notFound, r.NotFound...)
	}
	return cards, notFound, nil
}
