// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bizdesk/internal/account"
	"github.com/taibuivan/bizdesk/internal/platform/constants"
	"github.com/taibuivan/bizdesk/internal/platform/middleware"
	requestutil "github.com/taibuivan/bizdesk/internal/platform/request"
	"github.com/taibuivan/bizdesk/internal/platform/respond"
	"github.com/taibuivan/bizdesk/internal/platform/validate"
)

// # Definitions & Constructors

const (
	// bcrypt ignores input past 72 bytes
	maxPasswordBytes = 72
	maxDeviceID      = 128
)

// Handler implements the authentication HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login      : Opens a session and returns its three tokens.
//   - POST /refresh    : Exchanges a refresh token for an access token.
//   - POST /logout     : Revokes the session named by a session token.
//   - POST /verify     : Reports whether a bearer token is valid.
//   - POST /logout-all : Revokes every session of the caller (authenticated).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
	router.Post("/verify", handler.verify)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(handler.authService))
		r.Post("/logout-all", handler.logoutAll)
	})

	return router
}

// # Request & Response Payloads

type deviceInfo struct {
	DeviceID string `json:"deviceId"`
}

type loginRequest struct {
	Identifier string      `json:"identifier"`
	Password   string      `json:"password"`
	DeviceInfo *deviceInfo `json:"deviceInfo,omitempty"`
}

type loginResponse struct {
	Success      bool             `json:"success"`
	User         *account.Account `json:"user"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	SessionToken string           `json:"sessionToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"accessToken"`
}

type logoutRequest struct {
	SessionToken string `json:"sessionToken"`
}

type logoutAllResponse struct {
	Success bool  `json:"success"`
	Revoked int64 `json:"revoked"`
}

type verifyResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"userId,omitempty"`
	Error  string `json:"error,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

/*
POST /api/v1/auth/login

Request:
  - Body: loginRequest (identifier, password, deviceInfo?)

Response:
  - 200: loginResponse
  - 400: Validation failure
  - 401: invalid credentials (identical for every credential failure)
  - 429: Too many failed attempts for this identifier
  - 500: Session could not be persisted
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldIdentifier, input.Identifier).
		MaxLen(FieldIdentifier, input.Identifier, maxIdentifier).
		Required(FieldPassword, input.Password).
		MaxBytes(FieldPassword, input.Password, maxPasswordBytes)

	if input.DeviceInfo != nil {
		validator.MaxLen(FieldDeviceID, input.DeviceInfo.DeviceID, maxDeviceID).
			Printable(FieldDeviceID, input.DeviceInfo.DeviceID)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	loginInput := LoginInput{
		Identifier: input.Identifier,
		Password:   input.Password,
		IPAddress:  middleware.RealIP(request),
		UserAgent:  request.UserAgent(),
	}
	if input.DeviceInfo != nil {
		loginInput.DeviceID = input.DeviceInfo.DeviceID
	}

	result, err := handler.authService.Login(request.Context(), loginInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, loginResponse{
		Success:      true,
		User:         result.Account,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		SessionToken: result.Tokens.SessionID,
	})
}

/*
POST /api/v1/auth/refresh

Response:
  - 200: refreshResponse
  - 401: token revoked | token expired | token not found | invalid token | user inactive
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	issued, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, refreshResponse{Success: true, AccessToken: issued.AccessToken})
}

/*
POST /api/v1/auth/logout

Description: Idempotent. Logging out an unknown or already revoked session succeeds.
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input logoutRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Required(FieldSessionToken, input.SessionToken).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), input.SessionToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, successResponse{Success: true})
}

// POST /api/v1/auth/logout-all revokes every session of the authenticated account.
func (handler *Handler) logoutAll(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	revoked, err := handler.authService.LogoutAll(request.Context(), claims.AccountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, logoutAllResponse{Success: true, Revoked: revoked})
}

/*
POST /api/v1/auth/verify

Response:
  - 200: {valid:true, userId}
  - 401: {valid:false, error:<reason>}
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	claims, err := handler.authService.Authenticate(request.Context(), request.Header.Get(constants.HeaderAuthorization))
	if err != nil {
		appErr := respond.Resolve(request, err)
		respond.JSON(writer, appErr.HTTPStatus, verifyResponse{Valid: false, Error: appErr.Message})
		return
	}

	respond.JSON(writer, http.StatusOK, verifyResponse{Valid: true, UserID: claims.AccountID})
}
