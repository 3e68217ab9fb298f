package httpserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/image-evaluator/internal/application"
	appeval "github.com/bryanwahyu/image-evaluator/internal/application/evaluation"
	appsession "github.com/bryanwahyu/image-evaluator/internal/application/session"
	domain "github.com/bryanwahyu/image-evaluator/internal/domain/evaluation"
	domsession "github.com/bryanwahyu/image-evaluator/internal/domain/session"
	"github.com/bryanwahyu/image-evaluator/internal/infra/batchstore"
	"github.com/bryanwahyu/image-evaluator/internal/infra/content"
	"github.com/bryanwahyu/image-evaluator/internal/infra/db/memory"
	"github.com/bryanwahyu/image-evaluator/internal/infra/storage"
)

// fixed sampler: every score is 5 + 5*v
type fixedSampler struct{ v float64 }

func (s fixedSampler) Float64() float64 { return s.v }
func (s fixedSampler) Intn(int) int     { return 0 }

func newTestHandler(v float64, maxImageBytes int64) http.Handler {
	clock := application.FixedClock{T: time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)}
	sessions := &appsession.Service{
		Repo:  memory.NewSessionRepository(),
		User:  domsession.User{ID: "mock-user-id-123", Name: "Demo User", Email: "demo.user@example.com"},
		Clock: clock,
	}
	evals := &appeval.Service{
		Generator: domain.NewGenerator(fixedSampler{v: v}, content.Default()),
		Images:    storage.InlineStore{MaxBytes: maxImageBytes},
		Batches:   batchstore.NewMemory(time.Hour, clock),
		Clock:     clock,
	}
	return NewRouter(sessions, evals, Options{
		AllowedOrigins: []string{"http://localhost:5173"},
		MaxImageBytes:  maxImageBytes,
	})
}

func newTestServer(t *testing.T, v float64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newTestHandler(v, 1<<20))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/v1/session/login", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess domsession.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
	require.NotEmpty(t, sess.Token)
	return string(sess.Token)
}

var twoImages = map[string]any{
	"images": []domain.ImageDescriptor{
		{Name: "fox.jpg", Size: 1024, URL: "data:image/jpeg;base64,AAAA"},
		{Name: "den.png", Size: 2048, URL: "data:image/png;base64,BBBB"},
	},
}

func analyze(t *testing.T, srv *httptest.Server, token string) appeval.AnalyzeResult {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/v1/analyses", token, twoImages)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var res appeval.AnalyzeResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestSessionFlow(t *testing.T) {
	srv := newTestServer(t, 0.8)
	token := login(t, srv)

	resp := do(t, http.MethodGet, srv.URL+"/v1/session/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user domsession.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "Demo User", user.Name)

	resp = do(t, http.MethodPost, srv.URL+"/v1/session/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/v1/session/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	srv := newTestServer(t, 0.8)
	resp := do(t, http.MethodPost, srv.URL+"/v1/analyses", "", twoImages)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/v1/analyses", "not-a-token", twoImages)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAnalyzeAndFilter(t *testing.T) {
	srv := newTestServer(t, 0.8) // every score 9.0
	token := login(t, srv)
	res := analyze(t, srv, token)

	require.Len(t, res.Records, 2)
	assert.Equal(t, domain.StatusCounts{All: 2, Excellent: 2}, res.Counts)
	assert.Equal(t, 9.0, res.Records[1].Score)
	assert.Equal(t, 1, res.Records[1].ID)
	assert.Equal(t, "den.png", res.Records[1].Name)

	base := srv.URL + "/v1/analyses/" + string(res.BatchID)

	resp := do(t, http.MethodGet, base+"?status=excellent", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view appeval.ResultsView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Len(t, view.Records, 2)

	resp = do(t, http.MethodGet, base+"?status=warning", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view = appeval.ResultsView{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.NotNil(t, view.Records)
	assert.Empty(t, view.Records)
	assert.Equal(t, 2, view.Counts.All)

	resp = do(t, http.MethodGet, base+"?status=meh", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, base+"/records/1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec domain.AnalysisRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(t, "den.png", rec.Name)
	assert.Len(t, rec.RegionalAnalysis, 3)

	resp = do(t, http.MethodGet, base+"/records/7", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, base+"/records/x", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodDelete, base, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, base, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBatchBelongsToUserAcrossSessions(t *testing.T) {
	srv := newTestServer(t, 0.5)
	token := login(t, srv)
	res := analyze(t, srv, token)

	// same mock user, different session: still the owner
	other := login(t, srv)
	resp := do(t, http.MethodGet, srv.URL+"/v1/analyses/"+string(res.BatchID), other, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/v1/analyses/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeRejectsTooManyImages(t *testing.T) {
	srv := newTestServer(t, 0.5)
	token := login(t, srv)

	images := make([]domain.ImageDescriptor, 6)
	for i := range images {
		images[i] = domain.ImageDescriptor{Name: "a.png", Size: 1, URL: "x"}
	}
	resp := do(t, http.MethodPost, srv.URL+"/v1/analyses", token, map[string]any{"images": images})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/v1/analyses", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func multipartBody(t *testing.T, names ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range names {
		fw, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("pixels"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func upload(t *testing.T, srv *httptest.Server, token string, names ...string) *http.Response {
	t.Helper()
	body, ct := multipartBody(t, names...)
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/images", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestUpload(t *testing.T) {
	srv := newTestServer(t, 0.5)
	token := login(t, srv)

	resp := upload(t, srv, token, "1.png", "2.jpg", "3.jpeg", "4.png", "5.png", "6.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res appeval.UploadResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 5, res.Count)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, "1.png", res.Images[0].Name)
	assert.Equal(t, int64(6), res.Images[0].Size)
	assert.True(t, strings.HasPrefix(res.Images[0].URL, "data:image/png;base64,"))

	resp = upload(t, srv, token, "notes.txt")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, 0.5)
	for _, path := range []string{"/health", "/health/ready", "/health/live", "/metrics"} {
		resp := do(t, http.MethodGet, srv.URL+path, "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestUpload_BodyTooLarge(t *testing.T) {
	h := newTestHandler(0.5, 16)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/session/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var sess domsession.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sess))

	// cap is 5*16 bytes of images plus 1 MiB of slack
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("images", "huge.png")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{0xff}, 2<<20))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+string(sess.Token))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUpload_FileOverLimitIsBadRequest(t *testing.T) {
	srv := newTestServer(t, 0.5)
	token := login(t, srv)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("images", "big.png")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{0xff}, (1<<20)+1))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/images", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
