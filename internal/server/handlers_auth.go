package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bobmcallan/aurum/internal/common"
)

// --- JWT helpers ---

// signJWT creates a signed HMAC-SHA256 JWT carrying the session handle.
func signJWT(identity *common.Identity, sessionHandle string, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  identity.AccountID,
		"name": identity.DisplayName,
		"sid":  sessionHandle,
		"iss":  "aurum-server",
		"iat":  now.Unix(),
		"exp":  now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// --- Auth handlers ---

// handleAuthRegister handles POST /api/auth/register.
func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	accountID, err := s.app.Auth.Register(r.Context(), req.Username, req.Password, req.FirstName, req.LastName, req.Email)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{
		"account_id": accountID,
	})
}

// handleAuthLogin handles POST /api/auth/login. Rate-limited per remote
// address to slow credential stuffing.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if !s.loginLimiter.Allow(r.RemoteAddr) {
		WriteError(w, http.StatusTooManyRequests, "Too many login attempts")
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	identity, err := s.app.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if identity == nil {
		WriteDomainError(w, common.ErrInvalidCredentials)
		return
	}

	handle := s.app.Sessions.Start(identity.AccountID, identity.DisplayName)

	token, err := signJWT(identity, handle, &s.app.Config.Auth)
	if err != nil {
		s.app.Sessions.End(handle)
		s.logger.Error().Err(err).Msg("Failed to sign session token")
		WriteError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	s.logger.Info().
		Str("account_id", identity.AccountID).
		Msg("Login succeeded")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token":        token,
		"account_id":   identity.AccountID,
		"display_name": identity.DisplayName,
		"expires_in":   int(s.app.Config.Auth.GetTokenExpiry().Seconds()),
	})
}

// handleAuthLogout handles POST /api/auth/logout. Idempotent: logging out an
// already-ended session still returns 200.
func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if handle := SessionHandle(r.Context()); handle != "" {
		s.app.Sessions.End(handle)
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// handleAuthMe handles GET /api/auth/me.
func (s *Server) handleAuthMe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	identity := common.IdentityFromContext(r.Context())
	if identity == nil {
		WriteDomainError(w, common.ErrUnauthorized)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"account_id":   identity.AccountID,
		"display_name": identity.DisplayName,
	})
}
