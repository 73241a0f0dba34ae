package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/classmate-labs/debate-live-backend/internal/auth"
	"github.com/classmate-labs/debate-live-backend/internal/hub"
	"github.com/classmate-labs/debate-live-backend/internal/session"
	"github.com/classmate-labs/debate-live-backend/internal/store"
)

type fixture struct {
	srv  *httptest.Server
	mem  *store.Memory
	hub  *hub.Hub
	auth *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	h := hub.NewHub(context.Background(), mem, zap.NewNop())
	a := auth.NewService("test-secret")
	api := New(mem, h, a, zap.NewNop())

	srv := httptest.NewServer(SetupRoutes(api, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
	}))
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, mem: mem, hub: h, auth: a}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.ContentLength != 0 {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func (f *fixture) teacherToken(t *testing.T) string {
	t.Helper()
	u := &store.User{Name: "Teach", Email: "teach@example.com", UserType: auth.RoleTeacher}
	require.NoError(t, f.mem.CreateUser(context.Background(), u))
	token, err := f.auth.IssueToken(u)
	require.NoError(t, err)
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/api/user/register", "", map[string]any{
		"firstName": "Ana", "lastName": "Lee", "email": "ana@example.com",
		"password": "hunter2", "userType": "STUDENT",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])

	// duplicate email
	resp, _ = f.do(t, http.MethodPost, "/api/user/register", "", map[string]any{
		"firstName": "Ana", "email": "ana@example.com", "password": "x", "userType": "STUDENT",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = f.do(t, http.MethodPost, "/api/user/login", "", map[string]any{
		"email": "ana@example.com", "password": "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, _ = f.do(t, http.MethodPost, "/api/user/login", "", map[string]any{
		"email": "ana@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateDebate_TeacherOnly(t *testing.T) {
	f := newFixture(t)

	debate := map[string]any{"name": "Homework", "sides": []string{"For", "Against"}}

	resp, _ := f.do(t, http.MethodPost, "/api/debate/", "", debate)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	student := &store.User{Email: "s@example.com", UserType: auth.RoleStudent}
	require.NoError(t, f.mem.CreateUser(context.Background(), student))
	studentToken, err := f.auth.IssueToken(student)
	require.NoError(t, err)
	resp, _ = f.do(t, http.MethodPost, "/api/debate/", studentToken, debate)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := f.do(t, http.MethodPost, "/api/debate/", f.teacherToken(t), debate)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, "active", data["status"])
	assert.NotEmpty(t, data["id"])
}

func TestCreateDebate_RejectsBadSides(t *testing.T) {
	f := newFixture(t)
	token := f.teacherToken(t)

	for _, sides := range [][]string{
		{"Only"},
		{"For", "For"},
		{"For", ""},
	} {
		resp, _ := f.do(t, http.MethodPost, "/api/debate/", token, map[string]any{
			"name": "Bad", "sides": sides,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "sides=%v", sides)
	}
}

func seedDebate(t *testing.T, f *fixture) string {
	t.Helper()
	d := &store.Debate{
		Name: "Homework", UserID: "teacher-1",
		Sides: []string{"For", "Against"}, Status: store.StatusActive,
	}
	require.NoError(t, f.mem.CreateDebate(context.Background(), d))
	return d.ID
}

func TestJoinDebate_ValidatesSide(t *testing.T) {
	f := newFixture(t)
	id := seedDebate(t, f)

	resp, _ := f.do(t, http.MethodPost, "/api/debate/"+id+"/join", "", map[string]any{
		"userName": "ana", "Name": "Ana", "side": "Sideways", "firstThought": "hm",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := f.do(t, http.MethodPost, "/api/debate/"+id+"/join", "", map[string]any{
		"userName": "ana", "Name": "Ana", "side": "For", "firstThought": "hm",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, "For", data["side"])
	assert.NotEmpty(t, data["userName"])
}

func TestGetDebate_IncludesRelated(t *testing.T) {
	f := newFixture(t)
	id := seedDebate(t, f)
	require.NoError(t, f.mem.CreateContribution(context.Background(), &store.Contribution{
		DebateID: id, AuthorName: "Ana", Side: "For", Content: "hello",
	}))

	resp, body := f.do(t, http.MethodGet, "/api/debate/"+id, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Len(t, data["contributions"], 1)

	resp, _ = f.do(t, http.MethodGet, "/api/debate/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReactFallback_DirectStorePath(t *testing.T) {
	f := newFixture(t)
	id := seedDebate(t, f)
	c := &store.Contribution{DebateID: id, Side: "For", Content: "hi", Dislikes: 2}
	require.NoError(t, f.mem.CreateContribution(context.Background(), c))

	resp, body := f.do(t, http.MethodPost, "/api/debate/contributions/"+c.ID+"/react", "", map[string]any{
		"reaction": "dislike",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(3), data["dislikes"])

	resp, _ = f.do(t, http.MethodPost, "/api/debate/contributions/"+c.ID+"/react", "", map[string]any{
		"reaction": "meh",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReactFallback_RoutesThroughLiveSession(t *testing.T) {
	f := newFixture(t)
	id := seedDebate(t, f)
	c := &store.Contribution{DebateID: id, Side: "For", Content: "hi"}
	require.NoError(t, f.mem.CreateContribution(context.Background(), c))

	// Boot the live session so the REST write must serialize with it.
	reply := make(chan *session.Session, 1)
	f.hub.Inbox() <- hub.EnsureSession{DebateID: id, Reply: reply}
	require.NotNil(t, <-reply)

	resp, body := f.do(t, http.MethodPost, "/api/debate/contributions/"+c.ID+"/react", "", map[string]any{
		"debateId": id, "reaction": "like",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["likes"])

	stored, err := f.mem.GetContribution(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Likes)
}

func TestDeleteDebate_RemovesSessionAndRecords(t *testing.T) {
	f := newFixture(t)
	id := seedDebate(t, f)

	reply := make(chan *session.Session, 1)
	f.hub.Inbox() <- hub.EnsureSession{DebateID: id, Reply: reply}
	require.NotNil(t, <-reply)

	resp, _ := f.do(t, http.MethodDelete, "/api/debate/"+id, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, err := f.mem.GetDebate(context.Background(), id, false)
	assert.ErrorIs(t, err, store.ErrNotFound)

	resp, _ = f.do(t, http.MethodDelete, "/api/debate/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
