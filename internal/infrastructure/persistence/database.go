package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/leliel12/ulrich/internal/domain/catalog"
	"github.com/leliel12/ulrich/internal/infrastructure/storage"
	"github.com/leliel12/ulrich/internal/pkg/config"
	"github.com/leliel12/ulrich/internal/pkg/logger"
)

// Database is the single entry point owning the connection, the built
// entity registry and the blob store. The shell application constructs one
// at startup and opens transaction scopes from it per unit of work.
type Database struct {
	settings config.DatabaseSettings
	conn     *gorm.DB
	registry *Registry
	models   *Models
	store    *storage.FileStore
	logger   logger.Logger
}

// New opens the connection, builds the entity registry against it and
// initializes the blob store rooted at storageSettings.Root, using the
// connection's own database name as the container id. The store is
// registered process-wide under storage.DefaultStoreName.
func New(dbSettings config.DatabaseSettings, storageSettings config.StorageSettings, log logger.Logger) (*Database, error) {
	if err := dbSettings.Validate(); err != nil {
		return nil, err
	}
	if err := storageSettings.Validate(); err != nil {
		return nil, err
	}

	conn, err := NewDBConnection(dbSettings)
	if err != nil {
		return nil, err
	}

	registry := NewRegistry()
	for _, fragment := range DefaultFragments() {
		if err := registry.Register(fragment); err != nil {
			return nil, err
		}
	}

	models, err := registry.Build(conn)
	if err != nil {
		return nil, err
	}

	// The registry must be built before storage initialization: the
	// container id derives from the connection's identity.
	store, err := storage.Open(storageSettings.Root, dbSettings.ContainerID())
	if err != nil {
		return nil, err
	}
	storage.Register(storage.DefaultStoreName, store)

	db := &Database{
		settings: dbSettings,
		conn:     conn,
		registry: registry,
		models:   models,
		store:    store,
		logger:   log,
	}

	log.Info("Database ready: container ", store.Container(), ", entity kinds ", models.Names())
	return db, nil
}

// Conn returns the underlying connection. Safe to share for issuing
// independent scopes.
func (d *Database) Conn() *gorm.DB {
	return d.conn
}

// Models returns the built entity registry.
func (d *Database) Models() *Models {
	return d.models
}

// Store returns the blob store handle bound to this database's container.
func (d *Database) Store() *storage.FileStore {
	return d.store
}

// CreateSchema ensures the database catalog exists and is reachable.
// Idempotent; an existing but unreachable catalog fails with
// ErrSchemaCreate.
func (d *Database) CreateSchema() error {
	sqlDB, err := d.conn.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaCreate, err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("%w: catalog unreachable: %v", ErrSchemaCreate, err)
	}
	return nil
}

// CreateTables creates every table implied by the built registry, in
// registration order so owners exist before owned kinds. Idempotent for
// already-existing tables.
func (d *Database) CreateTables() error {
	for _, entity := range d.models.All() {
		if err := d.conn.AutoMigrate(entity.New()); err != nil {
			return fmt.Errorf("failed to create table %s: %w", entity.TableName, err)
		}
	}
	d.logger.Info("Tables created for ", d.models.Len(), " entity kinds")
	return nil
}

// Transaction returns a fresh scope bound to this facade's connection.
// Exactly one flow of control may use the scope between open and close;
// nested scopes are unsupported.
func (d *Database) Transaction() *Scope {
	return &Scope{db: d}
}

// SweepOrphans reconciles the blob container against the relational store.
//
// A blob write and its referencing row's commit are not one atomic unit: a
// rollback or crash between Put and commit strands the blob. The sweep
// removes container blobs referenced by no acquisition row and older than
// grace (so in-flight ingests are never collected). Returns the number of
// removed blobs.
func (d *Database) SweepOrphans(ctx context.Context, grace time.Duration) (int, error) {
	var acquisitions []catalog.Acquisition
	if err := d.conn.WithContext(ctx).Find(&acquisitions).Error; err != nil {
		return 0, fmt.Errorf("failed to enumerate acquisitions: %w", err)
	}

	referenced := make(map[string]struct{})
	for i := range acquisitions {
		for _, locator := range acquisitions[i].Locators() {
			referenced[locator] = struct{}{}
		}
	}

	locators, err := d.store.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-grace)
	removed := 0
	for _, locator := range locators {
		if _, ok := referenced[locator]; ok {
			continue
		}
		info, err := d.store.Stat(ctx, locator)
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := d.store.Delete(ctx, locator); err != nil {
			d.logger.Warn("Failed to sweep orphan blob ", locator, ": ", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		d.logger.Info("Swept ", removed, " orphan blobs from container ", d.store.Container())
	}
	return removed, nil
}

// Close releases the underlying connection.
func (d *Database) Close() error {
	return CloseDB(d.conn)
}
