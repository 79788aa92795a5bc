// Package service wires the catalog components into one object with an
// explicit lifecycle. A presentation layer creates it with Init, reads
// catalog views through its accessors and releases it with Dispose.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/s0up4200/reelscout/catalog"
	"github.com/s0up4200/reelscout/config"
	"github.com/s0up4200/reelscout/detail"
	"github.com/s0up4200/reelscout/favorites"
	"github.com/s0up4200/reelscout/filter"
	"github.com/s0up4200/reelscout/query"
	"github.com/s0up4200/reelscout/storage"
	"github.com/s0up4200/reelscout/tmdb"
)

// LanguageKey is the storage key holding the preferred language code.
const LanguageKey = "language"

// Options configures Init. Config is required; Storage and API are built
// from it when nil.
type Options struct {
	Config  *config.Config
	Storage storage.Store
	Logger  zerolog.Logger
	API     tmdb.API
	// Language overrides the stored preference for this session only.
	Language catalog.Language
	// Debounce replaces the search quiet period, zero keeps query.DefaultDebounce.
	Debounce time.Duration
	// OnSearchChange receives every search snapshot, see query.WithOnChange.
	OnSearchChange func(query.Snapshot)
}

// Service owns the query coordinator, detail aggregator and favorites store
// of one user session.
type Service struct {
	api     tmdb.API
	cfg     *config.Config
	logger  zerolog.Logger
	storage storage.Store
	owns    bool

	search    *query.Coordinator
	details   *detail.Aggregator
	favorites *favorites.Store
	filters   *filter.Manager

	mu       sync.RWMutex
	language catalog.Language

	genreGroup singleflight.Group
	genreMu    sync.Mutex
	genres     map[catalog.Language][]catalog.Genre

	disposeOnce sync.Once
}

// Init builds a Service and hydrates the persisted favorites and language.
func Init(ctx context.Context, opts Options) (*Service, error) {
	if opts.Config == nil {
		return nil, errors.New("service: config is required")
	}
	cfg := opts.Config
	logger := opts.Logger

	s := &Service{
		api:     opts.API,
		cfg:     cfg,
		logger:  logger.With().Str("component", "service").Logger(),
		storage: opts.Storage,
		genres:  make(map[catalog.Language][]catalog.Genre),
	}

	if s.storage == nil {
		st, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		s.storage = st
		s.owns = true
	}

	if s.api == nil {
		s.api = tmdb.NewClient(cfg.TMDB.APIKey, logger,
			tmdb.WithBaseURL(cfg.TMDB.BaseURL),
			tmdb.WithImageBaseURL(cfg.TMDB.ImageBaseURL),
			tmdb.WithTimeout(cfg.TMDB.Timeout),
			tmdb.WithLanguage(s.configLanguage()),
		)
	}

	lang, err := s.loadLanguage(ctx)
	if err != nil {
		s.closeStorage()
		return nil, err
	}
	if opts.Language != "" {
		lang = opts.Language
	}
	s.language = lang

	s.favorites, err = favorites.Open(ctx, s.storage, logger)
	if err != nil {
		s.closeStorage()
		return nil, err
	}

	s.filters = filter.NewManager()
	if err := s.filters.RegisterFilters(cfg.Filter); err != nil {
		s.closeStorage()
		return nil, fmt.Errorf("invalid filter configuration: %w", err)
	}

	s.details = detail.New(s.api, logger)

	searchOpts := []query.Option{
		query.WithDebounce(opts.Debounce),
		query.WithLanguage(lang),
	}
	if opts.OnSearchChange != nil {
		searchOpts = append(searchOpts, query.WithOnChange(opts.OnSearchChange))
	}
	s.search = query.New(s.api, logger, searchOpts...)

	s.logger.Debug().
		Str("language", string(lang)).
		Int("favorites", s.favorites.Len()).
		Msg("Service initialized")

	return s, nil
}

// Dispose stops the search coordinator and closes storage opened by Init.
// It is safe to call more than once.
func (s *Service) Dispose() error {
	var err error
	s.disposeOnce.Do(func() {
		s.search.Close()
		err = s.closeStorage()
	})
	return err
}

func (s *Service) closeStorage() error {
	if !s.owns {
		return nil
	}
	return s.storage.Close()
}

// Language returns the preferred language.
func (s *Service) Language() catalog.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SetLanguage persists lang and re-runs the active search in it.
func (s *Service) SetLanguage(ctx context.Context, lang catalog.Language) (catalog.Language, error) {
	parsed, err := catalog.ParseLanguage(string(lang))
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// s.language may be a session override, persist unless the stored value matches
	stored, ok, err := s.storage.Get(ctx, LanguageKey)
	if err != nil {
		return "", fmt.Errorf("failed to load language: %w", err)
	}
	if !ok || strings.TrimSpace(string(stored)) != string(parsed) {
		if err := s.storage.Set(ctx, LanguageKey, []byte(parsed)); err != nil {
			return "", fmt.Errorf("failed to persist language: %w", err)
		}
	}

	s.language = parsed
	s.search.SetLanguage(parsed)
	s.logger.Debug().Str("language", string(parsed)).Msg("Language changed")
	return parsed, nil
}

// Filters returns the named filters from the configuration.
func (s *Service) Filters() *filter.Manager {
	return s.filters
}

// loadLanguage prefers the stored language, then the configured one. An
// unreadable stored value is ignored with a warning.
func (s *Service) loadLanguage(ctx context.Context) (catalog.Language, error) {
	data, ok, err := s.storage.Get(ctx, LanguageKey)
	if err != nil {
		return "", fmt.Errorf("failed to load language: %w", err)
	}
	if ok {
		lang, err := catalog.ParseLanguage(strings.TrimSpace(string(data)))
		if err == nil {
			return lang, nil
		}
		s.logger.Warn().Err(err).Msg("Ignoring stored language")
	}
	return s.configLanguage(), nil
}

func (s *Service) configLanguage() catalog.Language {
	lang, err := catalog.ParseLanguage(s.cfg.TMDB.Language)
	if err != nil {
		return catalog.DefaultLanguage
	}
	return lang
}
