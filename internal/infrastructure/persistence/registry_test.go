//go:build unit
// +build unit

package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/leliel12/ulrich/internal/domain/catalog"
)

func TestDeriveTableName(t *testing.T) {
	assert.Equal(t, "ulrich_experiment", DeriveTableName("Experiment"))
	assert.Equal(t, "ulrich_user", DeriveTableName("User"))
}

func TestRegistryRegister_Duplicate(t *testing.T) {
	r := NewRegistry()

	err := r.Register(Fragment{Name: "User", Prototype: func() any { return &catalog.User{} }})
	require.NoError(t, err)

	// Same derived table name, even with different casing.
	err = r.Register(Fragment{Name: "USER", Prototype: func() any { return &catalog.User{} }})
	assert.ErrorIs(t, err, ErrDuplicateSchema)
}

func TestRegistryRegister_Invalid(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(Fragment{Prototype: func() any { return &catalog.User{} }}))
	assert.Error(t, r.Register(Fragment{Name: "User"}))
}

func TestRegistryBuild(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Fragment{Name: "User", Prototype: func() any { return &catalog.User{} }}))
	require.NoError(t, r.Register(Fragment{Name: "Experiment", Prototype: func() any { return &catalog.Experiment{} }}))

	_, err := r.Build(nil)
	assert.Error(t, err)

	db := &gorm.DB{}
	models, err := r.Build(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"User", "Experiment"}, models.Names())
	assert.Equal(t, 2, models.Len())

	// A second build returns the already-built set.
	again, err := r.Build(db)
	require.NoError(t, err)
	assert.Same(t, models, again)

	// No registration once built.
	err = r.Register(Fragment{Name: "Tag", Prototype: func() any { return &catalog.Tag{} }})
	assert.Error(t, err)
}

func TestRegistryBuild_Empty(t *testing.T) {
	models, err := NewRegistry().Build(&gorm.DB{})
	require.NoError(t, err)
	assert.Zero(t, models.Len())
	assert.Empty(t, models.Names())
}

func TestDefaultFragments_OwnersFirst(t *testing.T) {
	var names []string
	for _, f := range DefaultFragments() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"User", "Tag", "Experiment", "Acquisition"}, names)
}
