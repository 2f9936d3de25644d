//go:build integration
// +build integration

package v1

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leliel12/ulrich/internal/app"
	"github.com/leliel12/ulrich/internal/infrastructure/persistence"
	"github.com/leliel12/ulrich/internal/pkg/testutil"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := persistence.SetupTestDatabase(t)
	log := testutil.SetupTestLogger(t)

	r := gin.New()
	SetupRoutes(r,
		app.NewUserService(db, log),
		app.NewTagService(db, log),
		app.NewExperimentService(db, log),
		app.NewCaptureService(db, log))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutes_UserLifecycle(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, BasePath+"/users", CreateUserRequest{Username: "alice"})
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate username maps to a conflict, not a server error.
	w = doJSON(t, r, http.MethodPost, BasePath+"/users", CreateUserRequest{Username: "alice"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodGet, BasePath+"/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 1)
}

func TestRoutes_TagNormalization(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, BasePath+"/tags", CreateTagRequest{Tag: "night-pass"})
	require.Equal(t, http.StatusCreated, w.Code)

	var tag map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tag))
	assert.Equal(t, "NIGHT-PASS", tag["tag"])
}

func TestRoutes_ExperimentAndAcquisition(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, BasePath+"/users", CreateUserRequest{Username: "bob"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, BasePath+"/experiments", CreateExperimentRequest{Owner: "bob"})
	require.Equal(t, http.StatusCreated, w.Code)
	var experiment map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &experiment))
	code, _ := experiment["code"].(string)
	require.NotEmpty(t, code)

	// Ingest an acquisition with metadata and swir parts.
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	meta, err := mw.CreateFormFile("metadata", "metadata.json")
	require.NoError(t, err)
	_, err = meta.Write([]byte(`{"pass":1}`))
	require.NoError(t, err)
	swir, err := mw.CreateFormFile("swir", "swir.bin")
	require.NoError(t, err)
	_, err = swir.Write([]byte{0xDE, 0xAD})
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, BasePath+"/experiments/"+code+"/acquisitions", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var acquisition map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acquisition))
	id := int64(acquisition["id"].(float64))

	// Payload download round-trips.
	w = doJSON(t, r, http.MethodGet, BasePath+"/acquisitions/"+itoa(id)+"/metadata", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"pass":1}`, w.Body.String())

	// The vnir slot was never set.
	w = doJSON(t, r, http.MethodGet, BasePath+"/acquisitions/"+itoa(id)+"/vnir", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, BasePath+"/experiments/"+code+"/acquisitions", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_UnknownExperiment(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, BasePath+"/experiments/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
