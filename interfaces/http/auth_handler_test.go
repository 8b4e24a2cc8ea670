package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"ytcurator/domain/apperror"
	"ytcurator/domain/dto"
	"ytcurator/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(uc *MockAuthUseCase, redirect string) *gin.Engine {
	h := NewAuthHandler(uc, redirect)
	r := gin.New()
	r.GET("/auth/status", h.Status)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/youtube", h.GetAuthURL)
	r.GET("/auth/youtube/callback", h.HandleCallback)
	return r
}

func callback(r http.Handler, rawQuery, cookieState string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/auth/youtube/callback?"+rawQuery, nil)
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: stateCookie, Value: cookieState})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Status(t *testing.T) {
	uc := new(MockAuthUseCase)
	uc.On("Status", mock.Anything).Return(dto.AuthStatus{Authenticated: true})

	w, body := serve(newAuthRouter(uc, ""), http.MethodGet, "/auth/status")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":true}`, string(body.Data))
}

func TestAuthHandler_LogoutFailure(t *testing.T) {
	uc := new(MockAuthUseCase)
	uc.On("Logout", mock.Anything).Return(errors.New("permission denied"))

	w, body := serve(newAuthRouter(uc, ""), http.MethodPost, "/auth/logout")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, body.Error, "permission denied")
}

func TestAuthHandler_GetAuthURLSetsStateCookie(t *testing.T) {
	uc := new(MockAuthUseCase)
	uc.On("AuthCodeURL", mock.AnythingOfType("string")).Return("https://accounts.google.com/o/oauth2/auth?x=1")

	w, body := serve(newAuthRouter(uc, ""), http.MethodGet, "/auth/youtube")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body.Data), "accounts.google.com")
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, stateCookie, cookies[0].Name)
	uc.AssertCalled(t, "AuthCodeURL", cookies[0].Value)
}

func TestAuthHandler_CallbackJSON(t *testing.T) {
	uc := new(MockAuthUseCase)
	uc.On("CompleteLogin", mock.Anything, "code-1").Return(nil)
	r := newAuthRouter(uc, "")

	w := callback(r, "state=s1&code=code-1", "s1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = callback(r, "state=s1&code=code-1", "other")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = callback(r, "state=s1", "s1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNumberOfCalls(t, "CompleteLogin", 1)
}

func TestAuthHandler_CallbackLeavesSuccessLogToService(t *testing.T) {
	l := logger.GetLogger().Logger
	hook := logtest.NewLocal(l)
	t.Cleanup(func() { l.ReplaceHooks(make(logrus.LevelHooks)) })
	uc := new(MockAuthUseCase)
	uc.On("CompleteLogin", mock.Anything, "code-1").Return(nil)

	w := callback(newAuthRouter(uc, ""), "state=s1&code=code-1", "s1")

	require.Equal(t, http.StatusOK, w.Code)
	for _, entry := range hook.AllEntries() {
		assert.NotEqual(t, "YouTube account connected", entry.Message)
	}
}

func TestAuthHandler_CallbackExchangeFailure(t *testing.T) {
	uc := new(MockAuthUseCase)
	uc.On("CompleteLogin", mock.Anything, "bad").Return(apperror.Auth(errors.New("invalid_grant"), "code exchange failed"))

	w := callback(newAuthRouter(uc, ""), "state=s1&code=bad", "s1")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_CallbackRedirects(t *testing.T) {
	uc := new(MockAuthUseCase)
	uc.On("CompleteLogin", mock.Anything, "code-1").Return(nil)
	r := newAuthRouter(uc, "http://localhost:3000/settings?tab=account")

	w := callback(r, "state=s1&code=code-1", "s1")
	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/settings", loc.Path)
	assert.Equal(t, "account", loc.Query().Get("tab"))
	assert.Equal(t, "success", loc.Query().Get("status"))
	assert.False(t, loc.Query().Has("error"))

	w = callback(r, "error=access_denied", "")
	require.Equal(t, http.StatusFound, w.Code)
	loc, err = url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "error", loc.Query().Get("status"))
	assert.Equal(t, "oauth error: access_denied", loc.Query().Get("error"))
}
