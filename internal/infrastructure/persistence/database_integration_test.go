//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leliel12/ulrich/internal/domain/catalog"
)

func TestDatabase_BuildsRegistryAndStore(t *testing.T) {
	db := SetupTestDatabase(t)

	models := db.Models()
	assert.Equal(t, []string{"User", "Tag", "Experiment", "Acquisition"}, models.Names())

	exp, ok := models.Get("Experiment")
	require.True(t, ok)
	assert.Equal(t, "ulrich_experiment", exp.TableName)
	assert.IsType(t, &catalog.Experiment{}, exp.New())

	// Lookup is case-sensitive.
	_, ok = models.Get("experiment")
	assert.False(t, ok)

	assert.Equal(t, "memory", db.Store().Container())
}

func TestDatabase_CreateTablesIdempotent(t *testing.T) {
	db := SetupTestDatabase(t)

	// SetupTestDatabase already created the tables once.
	require.NoError(t, db.CreateTables())
	require.NoError(t, db.CreateSchema())
}

func TestDatabase_EndToEndScenario(t *testing.T) {
	db := SetupTestDatabase(t)
	before := time.Now().Add(-time.Second)

	var aliceID int64
	err := db.Transaction().Run(func(s *Session) error {
		alice := &catalog.User{Username: "alice"}
		if err := s.Create(alice); err != nil {
			return err
		}
		aliceID = alice.ID
		return s.Create(&catalog.Experiment{OwnerID: alice.ID})
	})
	require.NoError(t, err)

	// Visible from a fresh scope.
	err = db.Transaction().Run(func(s *Session) error {
		var experiments []catalog.Experiment
		if err := s.Find(&experiments, "owner_id = ?", aliceID); err != nil {
			return err
		}
		require.Len(t, experiments, 1)
		assert.NotEmpty(t, experiments[0].Code)
		assert.True(t, experiments[0].CreatedAt.After(before))
		assert.True(t, experiments[0].CreatedAt.Before(time.Now().Add(time.Second)))
		return nil
	})
	require.NoError(t, err)
}

func TestDatabase_DuplicateUsernameAcrossScopes(t *testing.T) {
	db := SetupTestDatabase(t)

	err := db.Transaction().Run(func(s *Session) error {
		return s.Create(&catalog.User{Username: "bob"})
	})
	require.NoError(t, err)

	err = db.Transaction().Run(func(s *Session) error {
		return s.Create(&catalog.User{Username: "bob"})
	})
	assert.ErrorIs(t, err, ErrConstraintViolation)

	// First row remains intact and queryable.
	err = db.Transaction().Run(func(s *Session) error {
		var users []catalog.User
		if err := s.Find(&users, "username = ?", "bob"); err != nil {
			return err
		}
		assert.Len(t, users, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestDatabase_TagNormalizedOnEveryWrite(t *testing.T) {
	db := SetupTestDatabase(t)

	tag := &catalog.Tag{Tag: "night-pass"}
	err := db.Transaction().Run(func(s *Session) error {
		return s.Create(tag)
	})
	require.NoError(t, err)

	err = db.Transaction().Run(func(s *Session) error {
		var got catalog.Tag
		if err := s.First(&got, tag.ID); err != nil {
			return err
		}
		assert.Equal(t, "NIGHT-PASS", got.Tag)

		got.Tag = "re-tagged"
		return s.Save(&got)
	})
	require.NoError(t, err)

	err = db.Transaction().Run(func(s *Session) error {
		var got catalog.Tag
		if err := s.First(&got, tag.ID); err != nil {
			return err
		}
		assert.Equal(t, "RE-TAGGED", got.Tag)
		return nil
	})
	require.NoError(t, err)
}

func TestDatabase_TagNormalizedOnMapUpdate(t *testing.T) {
	db := SetupTestDatabase(t)

	tag := &catalog.Tag{Tag: "daylight"}
	err := db.Transaction().Run(func(s *Session) error {
		return s.Create(tag)
	})
	require.NoError(t, err)

	// Map-based updates bypass the struct, not the normalization.
	err = db.Transaction().Run(func(s *Session) error {
		return TranslateError(s.DB().Model(tag).Updates(map[string]any{"tag": "re-labelled"}).Error)
	})
	require.NoError(t, err)

	var got catalog.Tag
	require.NoError(t, db.Conn().First(&got, tag.ID).Error)
	assert.Equal(t, "RE-LABELLED", got.Tag)
}

func TestDatabase_DeleteOwnerWithChildrenRejected(t *testing.T) {
	db := SetupTestDatabase(t)

	user := &catalog.User{Username: "carol"}
	err := db.Transaction().Run(func(s *Session) error {
		if err := s.Create(user); err != nil {
			return err
		}
		return s.Create(&catalog.Experiment{OwnerID: user.ID})
	})
	require.NoError(t, err)

	err = db.Transaction().Run(func(s *Session) error {
		return s.Delete(&catalog.User{}, user.ID)
	})
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestDatabase_AcquisitionPayloadRoundTrip(t *testing.T) {
	db := SetupTestDatabase(t)
	ctx := context.Background()

	metadata := []byte(`{"target":"salar de arizaro"}`)
	swir := []byte{0x53, 0x57, 0x49, 0x52}

	metaLoc, err := db.Store().PutBytes(ctx, metadata)
	require.NoError(t, err)
	swirLoc, err := db.Store().PutBytes(ctx, swir)
	require.NoError(t, err)

	acq := &catalog.Acquisition{MetadataLocator: metaLoc, SWIRLocator: swirLoc}
	err = db.Transaction().Run(func(s *Session) error {
		user := &catalog.User{Username: "dave"}
		if err := s.Create(user); err != nil {
			return err
		}
		experiment := &catalog.Experiment{OwnerID: user.ID}
		if err := s.Create(experiment); err != nil {
			return err
		}
		acq.ExperimentID = experiment.ID
		return s.Create(acq)
	})
	require.NoError(t, err)

	err = db.Transaction().Run(func(s *Session) error {
		var got catalog.Acquisition
		if err := s.First(&got, acq.ID); err != nil {
			return err
		}

		gotMeta, err := got.ReadMetadata(ctx)
		if err != nil {
			return err
		}
		assert.Equal(t, metadata, gotMeta)

		gotSWIR, err := got.ReadSWIR(ctx)
		if err != nil {
			return err
		}
		assert.Equal(t, swir, gotSWIR)

		_, err = got.ReadVNIR(ctx)
		assert.ErrorIs(t, err, catalog.ErrPayloadNotSet)
		return nil
	})
	require.NoError(t, err)
}

func TestDatabase_SweepOrphans(t *testing.T) {
	db := SetupTestDatabase(t)
	ctx := context.Background()

	referenced, err := db.Store().PutBytes(ctx, []byte("referenced"))
	require.NoError(t, err)
	orphan, err := db.Store().PutBytes(ctx, []byte("orphan"))
	require.NoError(t, err)

	err = db.Transaction().Run(func(s *Session) error {
		user := &catalog.User{Username: "erin"}
		if err := s.Create(user); err != nil {
			return err
		}
		experiment := &catalog.Experiment{OwnerID: user.ID}
		if err := s.Create(experiment); err != nil {
			return err
		}
		return s.Create(&catalog.Acquisition{ExperimentID: experiment.ID, VNIRLocator: referenced})
	})
	require.NoError(t, err)

	// A generous grace window keeps even unreferenced blobs.
	removed, err := db.SweepOrphans(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)

	time.Sleep(20 * time.Millisecond)
	removed, err = db.SweepOrphans(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = db.Store().Get(ctx, referenced)
	require.NoError(t, err)
	_, err = db.Store().Get(ctx, orphan)
	assert.Error(t, err)
}
