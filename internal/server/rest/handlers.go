package rest

import (
	"net/http"

	"github.com/dmitrijs2005/edupass/internal/common"
	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// createCredentialRequest accepts the site id as site_id or siteId.
type createCredentialRequest struct {
	SiteID      string `json:"site_id"`
	SiteIDCamel string `json:"siteId"`
	Login       string `json:"login"`
	Password    string `json:"password"`
}

type updateCredentialRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.deps.Users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		User:  userResponse{ID: res.User.ID, Name: res.User.Name, Email: res.User.Email},
		Token: res.Token,
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.deps.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		User:  userResponse{ID: res.User.ID, Name: res.User.Name, Email: res.User.Email},
		Token: res.Token,
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		s.writeServiceError(w, r, common.ErrorUnauthorized)
		return
	}

	user, err := s.deps.Users.Me(r.Context(), id.UserID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

func (s *Server) listSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.deps.Sites.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

func (s *Server) listCredentials(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		s.writeServiceError(w, r, common.ErrorUnauthorized)
		return
	}

	creds, err := s.deps.Credentials.List(r.Context(), id.UserID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := make([]credentialResponse, 0, len(creds))
	for _, c := range creds {
		resp = append(resp, toCredentialResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createCredential(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		s.writeServiceError(w, r, common.ErrorUnauthorized)
		return
	}

	var req createCredentialRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	siteID := req.SiteID
	if siteID == "" {
		siteID = req.SiteIDCamel
	}

	c, err := s.deps.Credentials.Create(r.Context(), id.UserID, siteID, req.Login, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCredentialResponse(c))
}

func (s *Server) updateCredential(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		s.writeServiceError(w, r, common.ErrorUnauthorized)
		return
	}

	var req updateCredentialRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := s.deps.Credentials.Update(r.Context(), id.UserID, chi.URLParam(r, "id"), req.Login, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCredentialResponse(c))
}

func (s *Server) deleteCredential(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		s.writeServiceError(w, r, common.ErrorUnauthorized)
		return
	}

	if err := s.deps.Credentials.Delete(r.Context(), id.UserID, chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
