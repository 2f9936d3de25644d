//go:build integration
// +build integration

package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leliel12/ulrich/internal/domain/catalog"
	"github.com/leliel12/ulrich/internal/infrastructure/persistence"
	"github.com/leliel12/ulrich/internal/infrastructure/storage"
	"github.com/leliel12/ulrich/internal/pkg/testutil"
)

type testServices struct {
	db          *persistence.Database
	users       *UserService
	tags        *TagService
	experiments *ExperimentService
	captures    *CaptureService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()

	db := persistence.SetupTestDatabase(t)
	log := testutil.SetupTestLogger(t)

	return &testServices{
		db:          db,
		users:       NewUserService(db, log),
		tags:        NewTagService(db, log),
		experiments: NewExperimentService(db, log),
		captures:    NewCaptureService(db, log),
	}
}

func TestUserService_CreateAndDuplicate(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	user, err := s.users.Create(ctx, "alice", "alice@conae.gov.ar")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	_, err = s.users.Create(ctx, "alice", "")
	assert.ErrorIs(t, err, persistence.ErrConstraintViolation)

	got, err := s.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestTagService_NormalizesOnCreate(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	tag, err := s.tags.Create(ctx, "salt-flat")
	require.NoError(t, err)
	assert.Equal(t, "SALT-FLAT", tag.Tag)

	// Case-insensitive duplicate: both normalize to the same value.
	_, err = s.tags.Create(ctx, "Salt-Flat")
	assert.ErrorIs(t, err, persistence.ErrConstraintViolation)
}

func TestExperimentService_CreateAndLookup(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	_, err := s.users.Create(ctx, "bob", "")
	require.NoError(t, err)

	experiment, err := s.experiments.Create(ctx, "bob")
	require.NoError(t, err)
	assert.NotEmpty(t, experiment.Code)

	got, err := s.experiments.GetByCode(ctx, experiment.Code)
	require.NoError(t, err)
	assert.Equal(t, experiment.ID, got.ID)

	owned, err := s.experiments.ListByOwner(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, owned, 1)
}

func TestExperimentService_UnknownOwner(t *testing.T) {
	s := setupServices(t)

	_, err := s.experiments.Create(context.Background(), "nobody")
	assert.Error(t, err)
}

func TestCaptureService_IngestAndRead(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	_, err := s.users.Create(ctx, "carol", "")
	require.NoError(t, err)
	experiment, err := s.experiments.Create(ctx, "carol")
	require.NoError(t, err)

	metadata := []byte(`{"pass":17}`)
	swir := bytes.Repeat([]byte{0x01}, 1<<16)

	acq, err := s.captures.IngestAcquisition(ctx, experiment.Code,
		bytes.NewReader(metadata), bytes.NewReader(swir), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, acq.MetadataLocator)
	assert.NotEmpty(t, acq.SWIRLocator)
	assert.Empty(t, acq.VNIRLocator)

	gotMeta, err := s.captures.ReadPayload(ctx, acq.ID, PayloadMetadata)
	require.NoError(t, err)
	assert.Equal(t, metadata, gotMeta)

	gotSWIR, err := s.captures.ReadPayload(ctx, acq.ID, PayloadSWIR)
	require.NoError(t, err)
	assert.Equal(t, swir, gotSWIR)

	_, err = s.captures.ReadPayload(ctx, acq.ID, PayloadVNIR)
	assert.ErrorIs(t, err, catalog.ErrPayloadNotSet)

	listed, err := s.captures.ListByExperiment(ctx, experiment.Code)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCaptureService_IngestUnknownExperimentCleansBlobs(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	_, err := s.captures.IngestAcquisition(ctx, "no-such-code",
		bytes.NewReader([]byte("meta")), nil, nil)
	require.Error(t, err)

	// The staged blob was cleaned up; the container holds nothing.
	store, err := storage.Default()
	require.NoError(t, err)
	locators, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, locators)
}
