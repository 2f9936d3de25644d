package persistence

import (
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/leliel12/ulrich/internal/domain/catalog"
)

// TablePrefix namespaces every catalog table in the relational store.
const TablePrefix = "ulrich_"

// DeriveTableName maps a fragment's logical name onto its storage name:
// lower-cased and prefixed ("Experiment" -> "ulrich_experiment").
func DeriveTableName(name string) string {
	return TablePrefix + strings.ToLower(name)
}

// Fragment is a named schema fragment: a prototype carrying the fields and
// validation rules of one entity kind.
type Fragment struct {
	Name      string
	Prototype func() any
}

// EntityType is a fragment materialized against a connection.
type EntityType struct {
	Name      string
	TableName string

	prototype func() any
}

// New returns a fresh zero value of the entity kind, ready to be populated
// and added to a session.
func (t *EntityType) New() any {
	return t.prototype()
}

// Models is the live, name-addressable set of built entity types. Lookup is
// case-sensitive; enumeration follows registration order.
type Models struct {
	ordered []*EntityType
	byName  map[string]*EntityType
}

// Get looks an entity type up by logical name.
func (m *Models) Get(name string) (*EntityType, bool) {
	t, ok := m.byName[name]
	return t, ok
}

// Names enumerates the logical names in registration order.
func (m *Models) Names() []string {
	names := make([]string, len(m.ordered))
	for i, t := range m.ordered {
		names[i] = t.Name
	}
	return names
}

// All enumerates the entity types in registration order.
func (m *Models) All() []*EntityType {
	out := make([]*EntityType, len(m.ordered))
	copy(out, m.ordered)
	return out
}

// Len returns the number of built entity types.
func (m *Models) Len() int {
	return len(m.ordered)
}

// Registry collects schema fragments and composes them, once, into the live
// entity types bound to a connection.
type Registry struct {
	mu        sync.Mutex
	fragments []Fragment
	tables    map[string]string
	built     *Models
}

// NewRegistry returns an empty fragment registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]string)}
}

// Register adds a schema fragment. The derived storage name must be unique
// across all registered fragments.
func (r *Registry) Register(f Fragment) error {
	if f.Name == "" {
		return fmt.Errorf("fragment name must not be empty")
	}
	if f.Prototype == nil {
		return fmt.Errorf("fragment %s has no prototype", f.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.built != nil {
		return fmt.Errorf("registry already built; cannot register %s", f.Name)
	}

	table := DeriveTableName(f.Name)
	if owner, exists := r.tables[table]; exists {
		return fmt.Errorf("%w: %s and %s both derive table %s", ErrDuplicateSchema, owner, f.Name, table)
	}

	r.tables[table] = f.Name
	r.fragments = append(r.fragments, f)
	return nil
}

// Build materializes every registered fragment into an entity type bound to
// db. Idempotent: the second call is a no-op returning the already-built
// set. Building an empty registry yields an empty set.
func (r *Registry) Build(db *gorm.DB) (*Models, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.built != nil {
		return r.built, nil
	}
	if db == nil {
		return nil, fmt.Errorf("cannot build registry without a connection")
	}

	models := &Models{byName: make(map[string]*EntityType, len(r.fragments))}
	for _, f := range r.fragments {
		t := &EntityType{
			Name:      f.Name,
			TableName: DeriveTableName(f.Name),
			prototype: f.Prototype,
		}
		models.ordered = append(models.ordered, t)
		models.byName[f.Name] = t
	}

	r.built = models
	return models, nil
}

// DefaultFragments enumerates the catalog's entity kinds in the order their
// tables must be created (owners before owned).
func DefaultFragments() []Fragment {
	return []Fragment{
		{Name: "User", Prototype: func() any { return &catalog.User{} }},
		{Name: "Tag", Prototype: func() any { return &catalog.Tag{} }},
		{Name: "Experiment", Prototype: func() any { return &catalog.Experiment{} }},
		{Name: "Acquisition", Prototype: func() any { return &catalog.Acquisition{} }},
	}
}
