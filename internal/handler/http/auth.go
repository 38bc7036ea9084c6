package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/zpasskit/zpass/internal/logger"
	"github.com/zpasskit/zpass/internal/utils"
	"github.com/zpasskit/zpass/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	salt, err := base64.StdEncoding.DecodeString(req.AccountSalt)
	if err != nil {
		log.Err(err).Msg("account salt is not valid base64")
		http.Error(w, "invalid account salt", http.StatusBadRequest)
		return
	}

	user, err := h.services.Auth.RegisterUser(ctx, req.Login, req.AuthCredential, salt)
	if err != nil {
		log.Err(err).Msg("error occurred during user registration")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.RegisterResponse{
		AccountSalt: base64.StdEncoding.EncodeToString(user.EncryptionSalt),
	}, http.StatusOK)
}

func (h *Handler) params(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ParamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	salt, err := h.services.Auth.AccountParams(ctx, req.Login)
	if err != nil {
		log.Err(err).Msg("error occurred during account params lookup")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.ParamsResponse{
		AccountSalt: base64.StdEncoding.EncodeToString(salt),
	}, http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, user, err := h.services.Auth.Login(ctx, req.Login, req.AuthCredential)
	if err != nil {
		log.Err(err).Msg("error occurred during user login")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	log.Debug().Int64("id", user.UserID).Msg("user successfully logged in")

	utils.WriteJSON(w, models.LoginResponse{
		SessionToken: token.SignedString,
		AccountSalt:  base64.StdEncoding.EncodeToString(user.EncryptionSalt),
	}, http.StatusOK)
}

// verify is a no-op behind the auth middleware: reaching it means the token
// checked out.
func (h *Handler) verify(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
