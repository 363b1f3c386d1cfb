// Package repository holds the SQLite implementations of the domain
// repositories.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ramonehamilton/mtg-deckforge/internal/deck"
	"github.com/ramonehamilton/mtg-deckforge/internal/storage"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DeckRepository stores decks in the decks, deck_categories and deck_cards
// tables. Card lists are replaced wholesale on every Update.
type DeckRepository struct {
	db *sql.DB
}

var _ deck.Repository = (*DeckRepository)(nil)

// NewDeckRepository creates a new deck repository.
func NewDeckRepository(db *sql.DB) *DeckRepository {
	return &DeckRepository{db: db}
}

// Create inserts a new deck with its categories and cards.
func (r *DeckRepository) Create(ctx context.Context, d *deck.Deck) error {
	if err := d.Validate(); err != nil {
		return err
	}

	return storage.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks WHERE id = ?`, d.ID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check deck id: %w", err)
		}
		if exists > 0 {
			return fmt.Errorf("%w: %s", deck.ErrAlreadyExists, d.ID)
		}

		query := `
			INSERT INTO decks (id, name, description, format, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		_, err = tx.ExecContext(ctx, query,
			d.ID,
			d.Name,
			d.Description,
			d.Format,
			d.CreatedAt.UTC(),
			d.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to create deck: %w", err)
		}
		return writeChildren(ctx, tx, d)
	})
}

// Update replaces the deck row, its categories and its cards.
func (r *DeckRepository) Update(ctx context.Context, d *deck.Deck) error {
	if err := d.Validate(); err != nil {
		return err
	}

	return storage.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			UPDATE decks
			SET name = ?, description = ?, format = ?, updated_at = ?
			WHERE id = ?
		`
		res, err := tx.ExecContext(ctx, query,
			d.Name,
			d.Description,
			d.Format,
			d.UpdatedAt.UTC(),
			d.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update deck: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM deck_categories WHERE deck_id = ?`, d.ID); err != nil {
			return fmt.Errorf("failed to clear categories: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = ?`, d.ID); err != nil {
			return fmt.Errorf("failed to clear cards: %w", err)
		}
		return writeChildren(ctx, tx, d)
	})
}

// Get retrieves a deck by its ID.
func (r *DeckRepository) Get(ctx context.Context, id string) (*deck.Deck, error) {
	query := `
		SELECT id, name, description, format, created_at, updated_at
		FROM decks
		WHERE id = ?
	`

	d := &deck.Deck{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID,
		&d.Name,
		&d.Description,
		&d.Format,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, deck.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck by id: %w", err)
	}

	if err := loadChildren(ctx, r.db, d); err != nil {
		return nil, err
	}
	return d, nil
}

// List retrieves all decks, most recently updated first.
func (r *DeckRepository) List(ctx context.Context) ([]*deck.Deck, error) {
	query := `
		SELECT id, name, description, format, created_at, updated_at
		FROM decks
		ORDER BY updated_at DESC, name, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var decks []*deck.Deck
	for rows.Next() {
		d := &deck.Deck{}
		if err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Description,
			&d.Format,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decks: %w", err)
	}
	rows.Close()

	for _, d := range decks {
		if err := loadChildren(ctx, r.db, d); err != nil {
			return nil, err
		}
	}

	deck.SortByUpdated(decks)
	return decks, nil
}

// Delete removes a deck; categories and cards cascade.
func (r *DeckRepository) Delete(ctx context.Context, id string) error {
	return storage.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		// Children are removed explicitly so deletes do not depend on the
		// connection having foreign keys enabled.
		if _, err := tx.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete deck cards: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM deck_categories WHERE deck_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete deck categories: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete deck: %w", err)
		}
		return requireRow(res)
	})
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return deck.ErrNotFound
	}
	return nil
}

func writeChildren(ctx context.Context, q querier, d *deck.Deck) error {
	for i, name := range d.Categories {
		_, err := q.ExecContext(ctx,
			`INSERT INTO deck_categories (deck_id, position, name) VALUES (?, ?, ?)`,
			d.ID, i, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert category %q: %w", name, err)
		}
	}

	query := `
		INSERT INTO deck_cards (
			deck_id, card_id, position, name, quantity, category, type_line,
			mana_cost, mana_value, colors, color_identity, rarity, set_code,
			collector_number, price_usd, image_uri
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, c := range d.Cards {
		var price sql.NullFloat64
		if c.PriceUSD != nil {
			price = sql.NullFloat64{Float64: *c.PriceUSD, Valid: true}
		}
		_, err := q.ExecContext(ctx, query,
			d.ID,
			c.ID,
			i,
			c.Name,
			c.Count,
			c.Category,
			c.TypeLine,
			c.ManaCost,
			c.ManaValue,
			joinColors(c.Colors),
			joinColors(c.ColorIdentity),
			c.Rarity,
			c.SetCode,
			c.CollectorNumber,
			price,
			c.ImageURI,
		)
		if err != nil {
			return fmt.Errorf("failed to insert card %q: %w", c.Name, err)
		}
	}
	return nil
}

func loadChildren(ctx context.Context, q querier, d *deck.Deck) error {
	rows, err := q.QueryContext(ctx,
		`SELECT name FROM deck_categories WHERE deck_id = ? ORDER BY position`, d.ID)
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}
	d.Categories = []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan category: %w", err)
		}
		d.Categories = append(d.Categories, name)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating categories: %w", err)
	}
	rows.Close()

	query := `
		SELECT card_id, name, quantity, category, type_line, mana_cost, mana_value,
		       colors, color_identity, rarity, set_code, collector_number, price_usd, image_uri
		FROM deck_cards
		WHERE deck_id = ?
		ORDER BY position
	`
	rows, err = q.QueryContext(ctx, query, d.ID)
	if err != nil {
		return fmt.Errorf("failed to get cards: %w", err)
	}
	defer rows.Close()

	d.Cards = []deck.Card{}
	for rows.Next() {
		var (
			c             deck.Card
			colors, ident string
			price         sql.NullFloat64
		)
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Count,
			&c.Category,
			&c.TypeLine,
			&c.ManaCost,
			&c.ManaValue,
			&colors,
			&ident,
			&c.Rarity,
			&c.SetCode,
			&c.CollectorNumber,
			&price,
			&c.ImageURI,
		); err != nil {
			return fmt.Errorf("failed to scan card: %w", err)
		}
		c.Colors = splitColors(colors)
		c.ColorIdentity = splitColors(ident)
		if price.Valid {
			p := price.Float64
			c.PriceUSD = &p
		}
		d.Cards = append(d.Cards, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating cards: %w", err)
	}
	return nil
}

func joinColors(colors []string) string {
	return strings.Join(colors, ",")
}

func splitColors(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
