package http

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"

	"ytcurator/domain/dto"
	"ytcurator/infrastructure/logger"
	"ytcurator/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/go-querystring/query"
)

const stateCookie = "oauth_state"

// IAuthHandler defines the YouTube sign-in handlers
type IAuthHandler interface {
	Status(ctx *gin.Context)
	Logout(ctx *gin.Context)
	GetAuthURL(ctx *gin.Context)
	HandleCallback(ctx *gin.Context)
}

type AuthHandler struct {
	auth usecase.IAuthUseCase
	// redirect receives the browser after the callback; empty answers with JSON
	redirect string
}

func NewAuthHandler(auth usecase.IAuthUseCase, redirect string) IAuthHandler {
	return &AuthHandler{auth: auth, redirect: redirect}
}

// callbackResult is appended to the post-auth redirect
type callbackResult struct {
	Status string `url:"status"`
	Error  string `url:"error,omitempty"`
}

// Status handles GET /auth/status
func (h *AuthHandler) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.OK(h.auth.Status(ctx.Request.Context())))
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(ctx *gin.Context) {
	if err := h.auth.Logout(ctx.Request.Context()); err != nil {
		respondError(ctx, "logout", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.Done())
}

// GetAuthURL handles GET /auth/youtube
func (h *AuthHandler) GetAuthURL(ctx *gin.Context) {
	state, err := generateRandomState()
	if err != nil {
		respondError(ctx, "authURL", err)
		return
	}
	ctx.SetCookie(stateCookie, state, 600, "/", "", false, true)
	ctx.JSON(http.StatusOK, dto.OK(gin.H{"auth_url": h.auth.AuthCodeURL(state)}))
}

// HandleCallback handles GET /auth/youtube/callback
func (h *AuthHandler) HandleCallback(ctx *gin.Context) {
	if errorParam := ctx.Query("error"); errorParam != "" {
		h.finish(ctx, http.StatusBadRequest, errors.New("oauth error: "+errorParam))
		return
	}
	state := ctx.Query("state")
	expected, _ := ctx.Cookie(stateCookie)
	if state == "" || state != expected {
		h.finish(ctx, http.StatusBadRequest, errors.New("invalid oauth state"))
		return
	}
	code := ctx.Query("code")
	if code == "" {
		h.finish(ctx, http.StatusBadRequest, errors.New("authorization code not found"))
		return
	}
	ctx.SetCookie(stateCookie, "", -1, "/", "", false, true)

	if err := h.auth.CompleteLogin(ctx.Request.Context(), code); err != nil {
		h.finish(ctx, statusFor(err), err)
		return
	}
	h.finish(ctx, http.StatusOK, nil)
}

func (h *AuthHandler) finish(ctx *gin.Context, status int, err error) {
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("OAuth callback failed")
	}
	if h.redirect == "" {
		if err != nil {
			ctx.JSON(status, dto.Fail(err))
			return
		}
		ctx.JSON(http.StatusOK, dto.Done())
		return
	}

	result := callbackResult{Status: "success"}
	if err != nil {
		result = callbackResult{Status: "error", Error: err.Error()}
	}
	target, perr := redirectURL(h.redirect, result)
	if perr != nil {
		logger.GetLogger().WithField("error", perr).Error("Invalid post-auth redirect")
		ctx.JSON(http.StatusInternalServerError, dto.Fail(perr))
		return
	}
	ctx.Redirect(http.StatusFound, target)
}

// redirectURL merges result into the query of base
func redirectURL(base string, result callbackResult) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	values, err := query.Values(result)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, vs := range values {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
