package main

import (
	"errors"

	"go.uber.org/zap"

	"github.com/ramonehamilton/mtg-deckforge/internal/advisor"
	"github.com/ramonehamilton/mtg-deckforge/internal/config"
	"github.com/ramonehamilton/mtg-deckforge/internal/deck"
	"github.com/ramonehamilton/mtg-deckforge/internal/llm"
	"github.com/ramonehamilton/mtg-deckforge/internal/scryfall"
	"github.com/ramonehamilton/mtg-deckforge/internal/service"
	"github.com/ramonehamilton/mtg-deckforge/internal/storage"
	"github.com/ramonehamilton/mtg-deckforge/internal/storage/repository"
	"github.com/ramonehamilton/mtg-deckforge/internal/translate"
)

func newScryfall(c *config.Config, log *zap.Logger) *scryfall.Client {
	opts := []scryfall.Option{scryfall.WithLogger(log)}
	if c.Scryfall.BaseURL != "" {
		opts = append(opts, scryfall.WithBaseURL(c.Scryfall.BaseURL))
	}
	if c.Scryfall.UserAgent != "" {
		opts = append(opts, scryfall.WithUserAgent(c.Scryfall.UserAgent))
	}
	if d := c.GetRateLimit(); d > 0 {
		opts = append(opts, scryfall.WithRateLimit(d))
	}
	return scryfall.NewClient(opts...)
}

// newCompleter returns the configured model, or llm.Unavailable when none
// is set up so translation and analysis fail per request instead of at boot.
func newCompleter(c *config.Config, log *zap.Logger) llm.Completer {
	completer, err := llm.New(llm.Config{
		Provider: c.LLM.Provider,
		Model:    c.LLM.Model,
		BaseURL:  c.LLM.BaseURL,
		APIKey:   c.LLM.APIKey,
		Timeout:  c.GetLLMTimeout(),
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) && c.LLM.Provider != "" && c.LLM.Provider != "none" {
			log.Warn("language model disabled", zap.Error(err))
		}
		return llm.Unavailable{}
	}
	log.Info("language model enabled", zap.String("provider", c.LLM.Provider))
	return completer
}

func newTranslator(c *config.Config, completer llm.Completer, log *zap.Logger) *translate.Translator {
	return translate.New(completer,
		translate.WithCacheTTL(c.GetCacheTTL()),
		translate.WithLogger(log),
	)
}

// deckStore is the deck repository plus the database behind it, if any.
type deckStore struct {
	repo deck.Repository
	db   *storage.DB // nil for the in-memory store
}

func (s *deckStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// openStore opens the deck store named by the config.
func openStore(c *config.Config, log *zap.Logger) (*deckStore, error) {
	if c.InMemory() {
		log.Info("decks are kept in memory")
		return &deckStore{repo: deck.NewMemoryRepository()}, nil
	}

	db, err := storage.Open(dbConfig(c))
	if err != nil {
		return nil, err
	}
	log.Info("deck database opened", zap.String("path", c.Storage.DBPath))
	return &deckStore{repo: repository.NewDeckRepository(db.Conn()), db: db}, nil
}

func dbConfig(c *config.Config) *storage.Config {
	dbCfg := storage.DefaultConfig(c.Storage.DBPath)
	if c.Storage.Driver != "" {
		dbCfg.Driver = c.Storage.Driver
	}
	return dbCfg
}

func newSearchService(c *config.Config, cards *scryfall.Client, completer llm.Completer, log *zap.Logger) *service.SearchService {
	return service.NewSearchService(cards, newTranslator(c, completer, log), log)
}

func newAnalyst(completer llm.Completer, log *zap.Logger) *advisor.Analyst {
	return advisor.New(completer, log)
}
