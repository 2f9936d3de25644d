//go:build unit
// +build unit

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "HYPERSPECTRAL", NormalizeTag("hyperspectral"))
	assert.Equal(t, "SWIR-2024", NormalizeTag("swir-2024"))

	// Idempotent: upper-casing an already-upper value is a no-op.
	assert.Equal(t, "HYPERSPECTRAL", NormalizeTag("HYPERSPECTRAL"))
}

func TestTagBeforeSave_Normalizes(t *testing.T) {
	tx := &gorm.DB{Statement: &gorm.Statement{}}

	tag := &Tag{Tag: "calibration"}
	require.NoError(t, tag.BeforeSave(tx))
	assert.Equal(t, "CALIBRATION", tag.Tag)

	// Runs on every write, not only at creation.
	tag.Tag = "re-tagged"
	require.NoError(t, tag.BeforeSave(tx))
	assert.Equal(t, "RE-TAGGED", tag.Tag)
}

func TestTagBeforeSave_NormalizesMapStatement(t *testing.T) {
	dest := map[string]any{"tag": "map-based"}
	tx := &gorm.DB{Statement: &gorm.Statement{Dest: dest}}

	tag := &Tag{Tag: "UNRELATED"}
	require.NoError(t, tag.BeforeSave(tx))
	assert.Equal(t, "MAP-BASED", dest["tag"])
}

func TestTagValidate(t *testing.T) {
	assert.Error(t, (&Tag{}).Validate())
	assert.NoError(t, (&Tag{Tag: "NIGHT"}).Validate())
}
