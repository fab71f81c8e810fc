package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"robohub/hub-api/middleware"
	"robohub/hub-api/model"
	"robohub/hub-api/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- Stubs ---

type stubObjectStore struct {
	mu     sync.Mutex
	keys   []string
	failOn string // key suffix
}

func (s *stubObjectStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failOn != "" && strings.HasSuffix(key, s.failOn) {
		return errors.New("put failed")
	}

	s.keys = append(s.keys, key)
	return nil
}

func (s *stubObjectStore) storedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}

type stubRecordStore struct {
	created []*model.Model
}

func (s *stubRecordStore) CreateModel(ctx context.Context, m *model.Model) error {
	s.created = append(s.created, m)
	return nil
}

// --- Helpers ---

func newUploadRouter(t *testing.T, store service.ObjectStore, records service.RecordStore) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	viper.Set("jwt.secret", "upload-route-test-secret")
	viper.Set("upload.max_size", int64(8<<20))
	viper.Set("upload.max_files", 8)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.Stats{}))

	a := &API{
		DB:          db,
		Coordinator: service.NewCoordinator(store, records),
	}

	r := gin.New()
	r.Use(middleware.NewRequestIDMiddleware())
	r.POST("/api/upload", a.uploadAuth(), a.ModelUpload)

	return r, db
}

func loginCookie(t *testing.T, db *gorm.DB, userID string) *http.Cookie {
	t.Helper()

	require.NoError(t, db.Create(&model.User{
		ID:           userID,
		Email:        userID + "@example.com",
		PasswordHash: "irrelevant",
	}).Error)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"type":    "auth",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(viper.GetString("jwt.secret")))
	require.NoError(t, err)

	return &http.Cookie{Name: "auth_token", Value: signed}
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

type envelopeBody struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelopeBody {
	t.Helper()

	var env envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// --- Tests ---

func TestUploadAnswers401InEnvelope(t *testing.T) {
	r, _ := newUploadRouter(t, &stubObjectStore{}, &stubRecordStore{})

	missing := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "nobody",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	missingSigned, err := missing.SignedString([]byte(viper.GetString("jwt.secret")))
	require.NoError(t, err)

	cases := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"no cookie", nil},
		{"garbage token", &http.Cookie{Name: "auth_token", Value: "not-a-token"}},
		{"deleted user", &http.Cookie{Name: "auth_token", Value: missingSigned}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)

			env := decodeEnvelope(t, rec)
			assert.Equal(t, http.StatusUnauthorized, env.Code)
			assert.Equal(t, "Unauthorized", env.Message)
		})
	}
}

func TestUploadRejectsNonMultipartInEnvelope(t *testing.T) {
	r, db := newUploadRouter(t, &stubObjectStore{}, &stubRecordStore{})
	cookie := loginCookie(t, db, "u1")

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(`{"name":"walk-policy"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusMethodNotAllowed, env.Code)
	assert.Equal(t, "Malformed body", env.Message)
}

func TestUploadPartialFailureEnvelopeListsFailedFiles(t *testing.T) {
	store := &stubObjectStore{failOn: "config.yaml"}
	records := &stubRecordStore{}
	r, db := newUploadRouter(t, store, records)
	cookie := loginCookie(t, db, "u1")

	body, ctype := multipartBody(t,
		map[string]string{"name": "walk-policy", "license": "MIT"},
		map[string]string{"weights.bin": "wwww", "config.yaml": "cccc"},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ctype)
	req.AddCookie(cookie)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusInternalServerError, env.Code)

	var data struct {
		Failed []string `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, []string{"config.yaml"}, data.Failed)

	// A failed session must leave no record behind
	assert.Empty(t, records.created)
}

func TestUploadSuccessEnvelopeCarriesRecord(t *testing.T) {
	store := &stubObjectStore{}
	records := &stubRecordStore{}
	r, db := newUploadRouter(t, store, records)
	cookie := loginCookie(t, db, "u1")

	body, ctype := multipartBody(t,
		map[string]string{"name": "walk-policy", "license": "MIT", "tags": "Walking,Balance"},
		map[string]string{"weights.bin": "wwww"},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ctype)
	req.AddCookie(cookie)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusOK, env.Code)

	var data model.Model
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "u1/walk-policy", data.Name)

	require.Len(t, records.created, 1)
	keys := store.storedKeys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasSuffix(keys[0], "/weights.bin"))
}

func TestUploadRejectsEscapingFileNames(t *testing.T) {
	store := &stubObjectStore{}
	records := &stubRecordStore{}
	r, db := newUploadRouter(t, store, records)
	cookie := loginCookie(t, db, "u1")

	// A part named ".." survives the multipart parser's base-name pass
	// and must never become an object key
	body, ctype := multipartBody(t,
		map[string]string{"name": "walk-policy"},
		map[string]string{"..": "oops"},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ctype)
	req.AddCookie(cookie)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusMethodNotAllowed, env.Code)
	assert.Equal(t, "Malformed body", env.Message)

	assert.Empty(t, store.storedKeys())
	assert.Empty(t, records.created)
}
