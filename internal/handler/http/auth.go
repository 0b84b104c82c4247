package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/codenest/erp-backend/internal/domain/auth"
	"github.com/codenest/erp-backend/internal/domain/session"
	"github.com/codenest/erp-backend/internal/handler/http/response"
	"github.com/codenest/erp-backend/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

const refreshTokenCookieName = "refresh_token"

type AuthHandler interface {
	SignUp(w http.ResponseWriter, r *http.Request)
	SignIn(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	SignOut(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService  jwt.Service
	authService auth.AuthService
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:  jwtService,
		authService: authService,
	}
}

// SignUp implements AuthHandler.
func (a *AuthHandlerImpl) SignUp(w http.ResponseWriter, r *http.Request) {
	var signUpReq auth.SignUpRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&signUpReq); err != nil {
		slog.Error("SignUp decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := signUpReq.Validate(); err != nil {
		slog.Error("SignUp validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Call service
	s, err := a.authService.SignUp(r.Context(), signUpReq, trackingFrom(r))
	if err != nil {
		slog.Error("SignUp service error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Success response
	http.SetCookie(w, a.jwtService.RefreshTokenCookie(s.RefreshToken, s.RefreshTokenExpiresAt))
	slog.Info("User signed up successfully", "user_id", s.UserID)
	response.Created(w, "Account created, waiting for administrator approval", auth.NewTokenResponse(s))
}

// SignIn implements AuthHandler.
func (a *AuthHandlerImpl) SignIn(w http.ResponseWriter, r *http.Request) {
	var signInReq auth.SignInRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&signInReq); err != nil {
		slog.Error("SignIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := signInReq.Validate(); err != nil {
		slog.Error("SignIn validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Call service
	s, err := a.authService.SignIn(r.Context(), signInReq, trackingFrom(r))
	if err != nil {
		slog.Error("SignIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Success response
	http.SetCookie(w, a.jwtService.RefreshTokenCookie(s.RefreshToken, s.RefreshTokenExpiresAt))
	slog.Info("User signed in successfully", "user_id", s.UserID)
	response.SuccessWithMessage(w, "User signed in successfully", auth.NewTokenResponse(s))
}

// Refresh implements AuthHandler.
func (a *AuthHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshTokenReq, err := refreshTokenFrom(r)
	if err != nil {
		slog.Error("Refresh decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := refreshTokenReq.Validate(); err != nil {
		slog.Error("Refresh validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Call service
	s, err := a.authService.Refresh(r.Context(), refreshTokenReq)
	if err != nil {
		slog.Error("Refresh service error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Success response
	slog.Info("Token refreshed successfully", "user_id", s.UserID)
	response.SuccessWithMessage(w, "Token refreshed successfully", auth.NewTokenResponse(s))
}

// SignOut implements AuthHandler.
func (a *AuthHandlerImpl) SignOut(w http.ResponseWriter, r *http.Request) {
	refreshTokenReq, err := refreshTokenFrom(r)
	if err != nil {
		slog.Error("SignOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := refreshTokenReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := a.authService.SignOut(r.Context(), refreshTokenReq.RefreshToken); err != nil {
		slog.Error("SignOut service error", "error", err)
		response.HandleError(w, err)
		return
	}

	// A bearer token sent along is blocked for the rest of its lifetime.
	if bearer := jwtauth.TokenFromHeader(r); bearer != "" {
		if _, err := a.jwtService.JWTAuth().Decode(bearer); err == nil {
			a.jwtService.RevokeToken(bearer)
		}
	}

	// Clear the refresh token cookie
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookieName,
		Value:    "",
		Path:     "/api/v1/auth",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	})
	response.SuccessWithMessage(w, "User signed out successfully", nil)
}

// refreshTokenFrom reads the refresh token from the JSON body, falling back to the cookie.
func refreshTokenFrom(r *http.Request) (auth.RefreshTokenRequest, error) {
	var req auth.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	if req.RefreshToken == "" {
		if cookie, err := r.Cookie(refreshTokenCookieName); err == nil {
			req.RefreshToken = cookie.Value
		}
	}
	return req, nil
}

func trackingFrom(r *http.Request) session.Tracking {
	return session.Tracking{
		UserAgent: r.UserAgent(),
		IPAddress: r.RemoteAddr,
	}
}
