package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anup-shanbhag/TrelloQuora/internal/config"
	"github.com/anup-shanbhag/TrelloQuora/internal/middleware"
	"github.com/anup-shanbhag/TrelloQuora/internal/repository/memstore"
	"github.com/anup-shanbhag/TrelloQuora/internal/security"
	"github.com/anup-shanbhag/TrelloQuora/internal/service"
	"github.com/anup-shanbhag/TrelloQuora/internal/session"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	users  *service.UserService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	tokens, err := security.NewTokenIssuer("handler-secret")
	require.NoError(t, err)
	authority := session.NewAuthority(store.Sessions(), tokens, zerolog.Nop())
	hasher := security.NewPasswordHasherWithParams(security.Argon2Params{
		Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8,
	})

	users := service.NewUserService(store.Users(), authority, hasher, nil, nil, zerolog.Nop())
	questions := service.NewQuestionService(store.Questions(), store.Users(), authority, nil, zerolog.Nop())
	answers := service.NewAnswerService(store.Answers(), store.Questions(), authority, nil, zerolog.Nop())

	cfg := &config.AppConfig{Environment: "test", Store: config.StoreConfig{Driver: config.StoreDriverMemory}}
	set := NewHandlerSet(zerolog.Nop(), cfg, Dependencies{Users: users, Questions: questions, Answers: answers})

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(zerolog.Nop()))
	set.Register(router.Group("/api"))

	return &testAPI{t: t, router: router, users: users}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) signup(name string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/user/signup", "", map[string]string{
		"firstName":    name,
		"lastName":     "Tester",
		"userName":     name,
		"emailAddress": name + "@example.com",
		"password":     "pw-" + name,
		"country":      "IN",
		"aboutMe":      "hi",
		"dob":          "1990-01-01",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp statusResponse
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(a.t, statusUserRegistered, resp.Status)
	return resp.ID
}

func (a *testAPI) signin(identifier, password string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/user/signin", nil)
	envelope := base64.StdEncoding.EncodeToString([]byte(identifier + " " + password))
	req.Header.Set("Authorization", "Basic "+envelope)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) token(name string) string {
	a.t.Helper()
	rec := a.signin(name, "pw-"+name)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	token := rec.Header().Get(accessTokenHeader)
	require.NotEmpty(a.t, token)
	return token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestSignupAndSignin(t *testing.T) {
	api := newTestAPI(t)
	id := api.signup("alice")

	rec := api.signin("alice", "pw-alice")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(accessTokenHeader))

	var resp messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, statusSignedIn, resp.Message)
}

func TestSignupConflict(t *testing.T) {
	api := newTestAPI(t)
	api.signup("alice")

	rec := api.do(http.MethodPost, "/api/user/signup", "", map[string]string{
		"userName": "alice", "emailAddress": "new@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "SGR-001", decodeError(t, rec).Code)
}

func TestSignupMalformedBody(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/user/signup", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, badRequestCode, decodeError(t, rec).Code)
}

func TestSigninFailures(t *testing.T) {
	api := newTestAPI(t)
	api.signup("alice")

	rec := api.signin("alice", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "ATH-002", decodeError(t, rec).Code)

	rec = api.signin("nobody", "pw")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "ATH-001", decodeError(t, rec).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/user/signin", nil)
	req.Header.Set("Authorization", "Basic not-base64!")
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "ATH-003", decodeError(t, rec).Code)
}

func TestQuestionAndAnswerFlow(t *testing.T) {
	api := newTestAPI(t)
	aliceID := api.signup("alice")
	api.signup("bob")
	alice := api.token("alice")
	bob := api.token("bob")

	rec := api.do(http.MethodGet, "/api/question/all", alice, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodPost, "/api/question/create", alice, questionRequest{Content: "What is a goroutine?"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, statusQuestionCreated, created.Status)

	rec = api.do(http.MethodPut, "/api/question/edit/"+created.ID, bob, questionRequest{Content: "nope"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ATHR-003", decodeError(t, rec).Code)

	rec = api.do(http.MethodGet, "/api/question/all/"+aliceID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []questionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "What is a goroutine?", listed[0].Content)

	rec = api.do(http.MethodPost, "/api/question/"+created.ID+"/answer/create", bob, answerRequest{Answer: "A lightweight thread"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var answer statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))

	rec = api.do(http.MethodPut, "/api/answer/edit/"+answer.ID, bob, answerEditRequest{Content: "A function running concurrently"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/answer/all/"+created.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var answers []answerDetailsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answers))
	require.Len(t, answers, 1)
	assert.Equal(t, "A function running concurrently", answers[0].AnswerContent)
	assert.Equal(t, "What is a goroutine?", answers[0].QuestionContent)

	rec = api.do(http.MethodDelete, "/api/answer/delete/"+answer.ID, alice, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodDelete, "/api/question/delete/"+created.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/answer/all/"+created.ID, alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "QUES-001", decodeError(t, rec).Code)
}

func TestSignedOutTokenIsRejected(t *testing.T) {
	api := newTestAPI(t)
	api.signup("alice")
	token := api.token("alice")

	rec := api.do(http.MethodPost, "/api/user/signout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPost, "/api/question/create", token, questionRequest{Content: "late"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "ATHR-002", resp.Code)
	assert.Contains(t, resp.Message, "post a question")
}

func TestMissingTokenIsRejected(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/question/all", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ATHR-001", decodeError(t, rec).Code)

	rec = api.do(http.MethodPost, "/api/user/signout", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "SGR-001", decodeError(t, rec).Code)
}

func TestProfileAndSessions(t *testing.T) {
	api := newTestAPI(t)
	bobID := api.signup("bob")
	api.signup("alice")
	first := api.token("alice")
	api.token("alice")

	rec := api.do(http.MethodGet, "/api/userprofile/"+bobID, first, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile profileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "bob", profile.UserName)
	assert.Equal(t, "bob@example.com", profile.EmailAddress)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.do(http.MethodGet, "/api/userprofile/unknown", first, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "USR-001", decodeError(t, rec).Code)

	rec = api.do(http.MethodGet, "/api/user/sessions", first, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sessions []sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	require.Len(t, sessions, 2)

	current := 0
	for _, s := range sessions {
		if s.Current {
			current++
		}
	}
	assert.Equal(t, 1, current)
}

func TestAdminDeleteUser(t *testing.T) {
	api := newTestAPI(t)
	_, created, err := api.users.EnsureAdmin(context.Background(), service.SignupInput{
		UserName: "root", Email: "root@example.com", Password: "pw-root",
	})
	require.NoError(t, err)
	require.True(t, created)

	bobID := api.signup("bob")
	api.signup("alice")
	admin := api.token("root")
	alice := api.token("alice")

	rec := api.do(http.MethodDelete, "/api/admin/user/"+bobID, alice, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ATHR-003", decodeError(t, rec).Code)

	rec = api.do(http.MethodDelete, "/api/admin/user/"+bobID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodDelete, "/api/admin/user/"+bobID, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "USR-001", decodeError(t, rec).Code)
}

func TestHealthWithoutBackends(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, config.StoreDriverMemory, resp.Store)
	assert.Equal(t, probeDisabled, resp.Database)
	assert.Equal(t, probeDisabled, resp.Cache)
}
