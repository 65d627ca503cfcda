package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/lazzyms/scratch-reveal-deals/internal/domain"
)

//go:embed data/*.json
var catalogFS embed.FS

// registry maps catalog IDs to their JSON filenames inside data/.
var registry = map[string]string{
	"default": "data/default.json",
}

// EmbeddedStore loads offer catalogs from embedded JSON files.
type EmbeddedStore struct {
	once     sync.Once
	catalogs map[string]domain.Catalog
	err      error
}

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{}
}

func (s *EmbeddedStore) init() {
	s.catalogs = make(map[string]domain.Catalog, len(registry))
	for id, filename := range registry {
		raw, err := catalogFS.ReadFile(filename)
		if err != nil {
			s.err = fmt.Errorf("read embedded catalog %s: %w", id, err)
			return
		}
		var c domain.Catalog
		if err := json.Unmarshal(raw, &c); err != nil {
			s.err = fmt.Errorf("parse embedded catalog %s: %w", id, err)
			return
		}
		if len(c.Offers) == 0 {
			s.err = fmt.Errorf("embedded catalog %s: %w", id, domain.ErrEmptyCatalog)
			return
		}
		c.ID = id
		s.catalogs[id] = c
	}
}

func (s *EmbeddedStore) GetCatalog(_ context.Context, catalogID string) (domain.Catalog, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return domain.Catalog{}, s.err
	}
	c, ok := s.catalogs[catalogID]
	if !ok {
		return domain.Catalog{}, domain.ErrCatalogNotFound
	}
	return c, nil
}
