// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/bizdesk/internal/platform/request"
	"github.com/taibuivan/bizdesk/internal/platform/respond"
)

// Handler implements the HTTP layer for the caller's own account.
//
// All routes expect the auth gate to have run first.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/me", handler.getMe)
	return router
}

/*
GET /api/v1/account/me.

Description: Retrieves the profile of the authenticated account.

Response:
  - 200: Account: Profile wrapped in the success envelope
  - 401: Authentication required
  - 404: Account no longer exists
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.accountService.GetProfile(request.Context(), claims.AccountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}
