package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swimlane/pkg/config"
	errs "github.com/matzehuels/swimlane/pkg/errors"
	"github.com/matzehuels/swimlane/pkg/observability"
)

// Open creates the store selected by cfg.Backend, wrapped with per-call
// timeouts and store hooks.
func Open(ctx context.Context, cfg config.StoreConfig, logger *log.Logger) (Store, error) {
	if logger == nil {
		logger = log.Default()
	}

	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case config.BackendMemory, "":
		s = NewMemoryStore()
	case config.BackendFile:
		s, err = NewFileStore(cfg.Dir)
	case config.BackendRedis:
		rs := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, WithPrefix(cfg.RedisPrefix))
		if err = rs.Ping(ctx); err != nil {
			rs.Close()
		} else {
			s = rs
		}
	case config.BackendMongo:
		s, err = NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	backend := cfg.Backend
	if backend == "" {
		backend = config.BackendMemory
	}
	logger.Debug("store opened", "backend", backend)
	return Instrument(s, backend, cfg.Timeout), nil
}

// Instrument wraps s so each call reports to [observability.Store] and runs
// under timeout (when positive).
func Instrument(s Store, backend string, timeout time.Duration) Store {
	return &instrumented{inner: s, backend: backend, timeout: timeout}
}

type instrumented struct {
	inner   Store
	backend string
	timeout time.Duration
}

func (s *instrumented) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *instrumented) Get(ctx context.Context, id string) (*Document, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	start := time.Now()
	doc, err := s.inner.Get(ctx, id)
	if err == nil || errs.Is(err, errs.ErrCodeDiagramNotFound) {
		observability.Store().OnLoad(ctx, s.backend, err == nil, time.Since(start))
	}
	return doc, err
}

func (s *instrumented) Put(ctx context.Context, doc *Document) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	start := time.Now()
	err := s.inner.Put(ctx, doc)
	size := 0
	if err == nil {
		if data, mErr := json.Marshal(doc); mErr == nil {
			size = len(data)
		}
	}
	observability.Store().OnSave(ctx, s.backend, size, time.Since(start), err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	err := s.inner.Delete(ctx, id)
	if err == nil {
		observability.Store().OnDelete(ctx, s.backend)
	}
	return err
}

func (s *instrumented) List(ctx context.Context) ([]Summary, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.inner.List(ctx)
}

func (s *instrumented) Close() error { return s.inner.Close() }
