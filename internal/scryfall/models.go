package scryfall

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Card represents a Magic card from Scryfall.
type Card struct {
	ID       string `json:"id"`
	OracleID string `json:"oracle_id,omitempty"`

	Name          string     `json:"name"`
	Lang          string     `json:"lang,omitempty"`
	ReleasedAt    string     `json:"released_at,omitempty"`
	ScryfallURI   string     `json:"scryfall_uri,omitempty"`
	Layout        string     `json:"layout,omitempty"`
	ImageURIs     *ImageURIs `json:"image_uris,omitempty"`
	ManaCost      string     `json:"mana_cost,omitempty"`
	CMC           float64    `json:"cmc"`
	TypeLine      string     `json:"type_line"`
	OracleText    string     `json:"oracle_text,omitempty"`
	Colors        []string   `json:"colors,omitempty"`
	ColorIdentity []string   `json:"color_identity"`
	Keywords      []string   `json:"keywords,omitempty"`

	Power     string `json:"power,omitempty"`
	Toughness string `json:"toughness,omitempty"`
	Loyalty   string `json:"loyalty,omitempty"`

	SetCode         string `json:"set"`
	SetName         string `json:"set_name,omitempty"`
	CollectorNumber string `json:"collector_number,omitempty"`
	Rarity          string `json:"rarity"`
	Artist          string `json:"artist,omitempty"`
	EDHRECRank      *int   `json:"edhrec_rank,omitempty"`

	// Card faces (for DFCs, MDFCs, split cards)
	CardFaces []CardFace `json:"card_faces,omitempty"`

	Legalities   map[string]string `json:"legalities,omitempty"`
	Prices       Prices            `json:"prices"`
	PurchaseURIs map[string]string `json:"purchase_uris,omitempty"`
}

// CardFace represents one face of a multi-faced card.
type CardFace struct {
	Name       string     `json:"name"`
	ManaCost   string     `json:"mana_cost,omitempty"`
	TypeLine   string     `json:"type_line"`
	OracleText string     `json:"oracle_text,omitempty"`
	Colors     []string   `json:"colors,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
}

// ImageURIs contains URLs for card images in various sizes.
type ImageURIs struct {
	Small      string `json:"small"`
	Normal     string `json:"normal"`
	Large      string `json:"large"`
	PNG        string `json:"png"`
	ArtCrop    string `json:"art_crop"`
	BorderCrop string `json:"border_crop"`
}

// Prices are decimal strings; a nil field means Scryfall has no price.
type Prices struct {
	USD       *string `json:"usd,omitempty"`
	USDFoil   *string `json:"usd_foil,omitempty"`
	USDEtched *string `json:"usd_etched,omitempty"`
	EUR       *string `json:"eur,omitempty"`
	EURFoil   *string `json:"eur_foil,omitempty"`
	TIX       *string `json:"tix,omitempty"`
}

// TypeLineOrFace returns the card's type line, falling back to the front face
// for layouts that only carry it per face.
func (c *Card) TypeLineOrFace() string {
	if c.TypeLine != "" || len(c.CardFaces) == 0 {
		return c.TypeLine
	}
	return c.CardFaces[0].TypeLine
}

// ManaCostOrFace returns the mana cost, or the front face's for multi-faced cards.
func (c *Card) ManaCostOrFace() string {
	if c.ManaCost != "" || len(c.CardFaces) == 0 {
		return c.ManaCost
	}
	return c.CardFaces[0].ManaCost
}

// ColorsOrFace returns the card colors, or the front face's colors when the
// card itself has none listed.
func (c *Card) ColorsOrFace() []string {
	if c.Colors != nil || len(c.CardFaces) == 0 {
		return c.Colors
	}
	return c.CardFaces[0].Colors
}

// ImageURL returns the normal-size image, looking at the front face when the
// card has no top-level images.
func (c *Card) ImageURL() string {
	if c.ImageURIs != nil {
		return c.ImageURIs.Normal
	}
	if len(c.CardFaces) > 0 && c.CardFaces[0].ImageURIs != nil {
		return c.CardFaces[0].ImageURIs.Normal
	}
	return ""
}

// PriceUSD parses the USD price. It returns nil when the price is missing or
// malformed.
func (c *Card) PriceUSD() *float64 {
	if c.Prices.USD == nil {
		return nil
	}
	v, err := strconv.ParseFloat(*c.Prices.USD, 64)
	if err != nil {
		return nil
	}
	return &v
}

// SearchResult represents search results from Scryfall.
type SearchResult struct {
	Object     string   `json:"object"`
	TotalCards int      `json:"total_cards"`
	HasMore    bool     `json:"has_more"`
	NextPage   string   `json:"next_page,omitempty"`
	Data       []Card   `json:"data"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Catalog is a list of strings, as returned by autocomplete.
type Catalog struct {
	Object      string   `json:"object"`
	TotalValues int      `json:"total_values"`
	Data        []string `json:"data"`
}

// ErrRateLimited is returned when Scryfall keeps answering 429 after every retry.
var ErrRateLimited = errors.New("scryfall rate limit exceeded")

// APIError represents an error response from the Scryfall API.
type APIError struct {
	Object   string   `json:"object"`
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Details  string   `json:"details"`
	Type     string   `json:"type,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// NotFoundError represents a 404 error from the API.
type NotFoundError struct {
	URL     string
	Details string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("resource not found: %s", e.Details)
	}
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsRateLimited reports whether err is the result of exhausted 429 retries.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsBadQuery reports whether Scryfall rejected the request as malformed,
// typically a search query it could not parse.
func IsBadQuery(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}
