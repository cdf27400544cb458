package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"vidtube-go/internal/api/handler"
	"vidtube-go/internal/config"
	infraMinio "vidtube-go/internal/infra/minio"
	"vidtube-go/internal/model"
	"vidtube-go/internal/repository"
	"vidtube-go/internal/service"
	"vidtube-go/internal/testutil"
	"vidtube-go/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memStorage struct {
	seq int
}

func (m *memStorage) Upload(_ context.Context, localPath, kind string) (*infraMinio.Object, error) {
	m.seq++
	name := fmt.Sprintf("%s/%d%s", kind, m.seq, filepath.Ext(localPath))
	return &infraMinio.Object{Name: name, URL: "http://media.test/" + name}, nil
}

func (m *memStorage) Remove(context.Context, string) error { return nil }

type apiFixture struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	tokens *utils.TokenManager
}

func setupAPI(t *testing.T) *apiFixture {
	db := testutil.NewDB(t)
	tokens := utils.NewTokenManager("vidtube-test", "access", 15*time.Minute, "refresh", time.Hour)
	storage := &memStorage{}
	uploader := handler.NewUploader(config.UploadConfig{TempDir: t.TempDir(), MaxVideoSizeMB: 1, MaxImageSizeMB: 1})

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	authService := service.NewAuthService(userRepo, storage, tokens)
	h := &Handlers{
		Auth: handler.NewAuthHandler(authService, uploader,
			config.CookieConfig{Secure: true},
			config.JWTConfig{AccessExpireMinutes: 15, RefreshExpireHours: 1}),
		User:    handler.NewUserHandler(service.NewUserService(userRepo, channelRepo, storage), uploader),
		Video:   handler.NewVideoHandler(service.NewVideoService(videoRepo, channelRepo, storage, nil, nil, nil), service.NewSearchService(videoRepo, nil, nil), uploader),
		Comment: handler.NewCommentHandler(service.NewCommentService(commentRepo, videoRepo)),
		Like: handler.NewLikeHandler(service.NewLikeService(
			repository.NewLikeRepository(db), videoRepo, commentRepo, tweetRepo)),
		Tweet:        handler.NewTweetHandler(service.NewTweetService(tweetRepo, videoRepo, userRepo)),
		Playlist:     handler.NewPlaylistHandler(service.NewPlaylistService(repository.NewPlaylistRepository(db), videoRepo, userRepo)),
		Subscription: handler.NewSubscriptionHandler(service.NewSubscriptionService(subRepo, userRepo)),
		Dashboard:    handler.NewDashboardHandler(service.NewDashboardService(videoRepo, subRepo, nil, 0)),
	}

	r := gin.New()
	Setup(r, h, authService, nil)
	return &apiFixture{t: t, db: db, engine: r, tokens: tokens}
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

func (f *apiFixture) token(u *model.User) string {
	pair, err := f.tokens.IssuePair(u.ID)
	require.NoError(f.t, err)
	return pair.AccessToken
}

func (f *apiFixture) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	f.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return f.serve(req)
}

func (f *apiFixture) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	f.t.Helper()
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(f.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	assert.Equal(f.t, w.Code, env.StatusCode)
	assert.Equal(f.t, w.Code < http.StatusBadRequest, env.Success)
	return w, env
}

func TestRegisterLoginRefreshLogout(t *testing.T) {
	f := setupAPI(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"fullName": "Alice", "email": "alice@example.com", "username": "Alice", "password": "secret123",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, env := f.serve(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, string(env.Data), "password")

	var user struct {
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "alice", user.Username)
	assert.Contains(t, user.Avatar, infraMinio.KindAvatar)

	_, env = f.do(http.MethodPost, "/api/v1/users/login", "", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)
	_, env = f.do(http.MethodPost, "/api/v1/users/login", "", map[string]string{"username": "nobody", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)

	w, env = f.do(http.MethodPost, "/api/v1/users/login", "", map[string]string{"email": "alice@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, "accessToken")
	require.Contains(t, cookies, "refreshToken")
	assert.True(t, cookies["accessToken"].HttpOnly)
	assert.True(t, cookies["accessToken"].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies["accessToken"].SameSite)

	// Cookie 即可完成认证
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.AddCookie(cookies["accessToken"])
	w, _ = f.serve(req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(cookies["refreshToken"])
	w, env = f.serve(req)
	require.Equal(t, http.StatusOK, w.Code)
	var rotated struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rotated))

	_, env = f.do(http.MethodPost, "/api/v1/users/refresh-token", "", map[string]string{"refreshToken": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)

	w, _ = f.do(http.MethodPost, "/api/v1/users/logout", rotated.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	f := setupAPI(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/users/current-user"},
		{http.MethodPost, "/api/v1/videos"},
		{http.MethodGet, "/api/v1/comments/1"},
		{http.MethodPost, "/api/v1/likes/toggle/v/1"},
		{http.MethodPost, "/api/v1/playlists"},
		{http.MethodGet, "/api/v1/dashboard/stats"},
	} {
		w, env := f.do(route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
		assert.NotNil(t, env.Errors)
	}

	w, _ := f.do(http.MethodGet, "/api/v1/users/current-user", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVideoGateOrdering(t *testing.T) {
	f := setupAPI(t)
	owner := testutil.CreateUser(t, f.db, "owner")
	other := testutil.CreateUser(t, f.db, "other")
	v := testutil.CreateVideo(t, f.db, owner, "clip")
	path := fmt.Sprintf("/api/v1/videos/%d", v.ID)

	w, _ := f.do(http.MethodPatch, "/api/v1/videos/abc", f.token(other), map[string]string{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = f.do(http.MethodPatch, "/api/v1/videos/0", f.token(other), map[string]string{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(http.MethodPatch, "/api/v1/videos/9999", f.token(other), map[string]string{"title": ""})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 非所有者即使请求体无效也是 403
	w, _ = f.do(http.MethodPatch, path, f.token(other), map[string]string{"title": ""})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = f.do(http.MethodPatch, path, f.token(owner), map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := f.do(http.MethodPatch, path, f.token(owner), map[string]string{"title": "renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "renamed")

	_, env = f.do(http.MethodPatch, "/api/v1/videos/toggle/publish/"+fmt.Sprint(v.ID), f.token(owner), nil)
	assert.Equal(t, "视频已设为私密", env.Message)

	// 匿名访问也计入播放量
	w, env = f.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"views":1`)
}

func TestPlaylistFavoritesOverHTTP(t *testing.T) {
	f := setupAPI(t)
	u1 := testutil.CreateUser(t, f.db, "u1")
	u2 := testutil.CreateUser(t, f.db, "u2")
	v := testutil.CreateVideo(t, f.db, u1, "clip")

	w, env := f.do(http.MethodPost, "/api/v1/playlists", f.token(u1), map[string]string{"name": "Favorites"})
	require.Equal(t, http.StatusCreated, w.Code)
	var pl struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &pl))

	add := fmt.Sprintf("/api/v1/playlists/add/%d/%d", v.ID, pl.ID)
	w, _ = f.do(http.MethodPatch, add, f.token(u2), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = f.do(http.MethodPatch, add, f.token(u1), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = f.do(http.MethodPatch, add, f.token(u1), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = f.do(http.MethodGet, fmt.Sprintf("/api/v1/playlists/%d", pl.ID), f.token(u2), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Videos []struct {
			ID int64 `json:"id"`
		} `json:"videos"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	require.Len(t, detail.Videos, 1)
	assert.Equal(t, v.ID, detail.Videos[0].ID)
}

func TestListPaginationContract(t *testing.T) {
	f := setupAPI(t)
	owner := testutil.CreateUser(t, f.db, "owner")
	for i := 0; i < 3; i++ {
		testutil.CreateVideo(t, f.db, owner, fmt.Sprintf("v%d", i))
	}

	w, _ := f.do(http.MethodGet, "/api/v1/videos?limit=51", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = f.do(http.MethodGet, "/api/v1/videos?sortBy=secret", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := f.do(http.MethodGet, "/api/v1/videos?limit=2&sortBy=title&sortType=asc", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []struct {
			Title string `json:"title"`
		} `json:"items"`
		Pagination struct {
			Total       int64 `json:"total"`
			TotalPages  int64 `json:"totalPages"`
			HasNextPage bool  `json:"hasNextPage"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 2)
	assert.Equal(t, "v0", page.Items[0].Title)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, int64(2), page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNextPage)
}

func TestSubscriptionAndChannelProfile(t *testing.T) {
	f := setupAPI(t)
	a := testutil.CreateUser(t, f.db, "a")
	c := testutil.CreateUser(t, f.db, "c")

	w, env := f.do(http.MethodPost, fmt.Sprintf("/api/v1/subscriptions/%d/toggle", c.ID), f.token(a), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subscribed":true}`, string(env.Data))

	_, env = f.do(http.MethodGet, "/api/v1/users/channel/c", f.token(a), nil)
	assert.Contains(t, string(env.Data), `"isSubscribed":true`)

	// 令牌无效时按匿名处理
	w, env = f.do(http.MethodGet, "/api/v1/users/channel/c", "expired", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"isSubscribed":false`)

	w, _ = f.do(http.MethodGet, "/api/v1/users/channel/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
