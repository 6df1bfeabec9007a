package cli

import (
	"log/slog"

	"github.com/voyago/itinera/internal/catalog"
	"github.com/voyago/itinera/pkg/adapters/file"
	"github.com/voyago/itinera/pkg/adapters/memory"
	"github.com/voyago/itinera/pkg/adapters/redis"
	"github.com/voyago/itinera/pkg/ports"
	"github.com/voyago/itinera/pkg/session"
)

// NewStore builds the snapshot store the CLI persists to: Redis when an
// address is configured, local JSON files under .itinera/sessions otherwise.
func NewStore(redisAddr string, redisDB int) ports.SnapshotStore {
	if redisAddr != "" {
		return redis.New(redisAddr, "", redisDB)
	}
	return file.New("")
}

// NewSessionManager wraps a store in a session manager.
func NewSessionManager(store ports.SnapshotStore, logger *slog.Logger) *session.Manager {
	return session.NewManager(store, session.WithLogger(logger))
}

// NewCatalog builds the catalog source: normalized YAML data files when a
// directory is given, the built-in demo dataset otherwise.
func NewCatalog(dir string, logger *slog.Logger) ports.CatalogSource {
	if dir == "" {
		return memory.DemoCatalog()
	}
	return catalog.New(catalog.NewFileSource(dir), catalog.WithLogger(logger))
}
