package http

import (
	"encoding/json"
	"net/http"

	"github.com/zpasskit/zpass/internal/logger"
	"github.com/zpasskit/zpass/internal/utils"
	"github.com/zpasskit/zpass/models"
)

func (h *Handler) getVault(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	blob, err := h.services.Vault.GetVault(ctx, userID)
	if err != nil {
		log.Err(err).Msg("error occurred during vault read")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.VaultGetResponse{
		Ciphertext:     blob.Ciphertext,
		RemoteRevision: blob.Revision,
	}, http.StatusOK)
}

func (h *Handler) putVault(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.VaultPutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	newRevision, err := h.services.Vault.ReplaceVault(ctx, userID, req.Ciphertext, req.ExpectedRemoteRevision)
	if err != nil {
		log.Err(err).Msg("error occurred during vault replace")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.VaultPutResponse{
		NewRemoteRevision: newRevision,
	}, http.StatusOK)
}
