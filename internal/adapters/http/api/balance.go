package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/matchday/internal/domain/partition"
	"github.com/okian/matchday/internal/domain/types"
	"github.com/okian/matchday/pkg/logger"
)

// maxBodyBytes bounds a POST /balance body.
const maxBodyBytes = 1 << 20

// BalanceHandler handles balancing requests.
type BalanceHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewBalanceHandler creates a new balance handler.
func NewBalanceHandler(deps Dependencies, log logger.Logger) *BalanceHandler {
	return &BalanceHandler{deps: deps, log: log}
}

// HandlePostBalance handles POST /balance requests.
func (h *BalanceHandler) HandlePostBalance(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_balance"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, op, http.MethodPost)
		return
	}

	var req types.BalanceRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if limit := h.deps.MaxParticipants(); len(req.Participants) > limit {
		err := fmt.Errorf("%w: %d submitted, limit is %d", types.ErrTooManyParticipants, len(req.Participants), limit)
		writeError(w, http.StatusBadRequest, "too_many_participants", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.GroupSize < 0 {
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, errors.New("group_size must not be negative")))
		return
	}

	in := types.BalanceInput{
		GroupSize: req.GroupSize,
		Weights:   req.WeightVector(),
		Preset:    req.Preset,
	}
	for _, p := range req.Participants {
		if p.IsActive() {
			in.Participants = append(in.Participants, p.ToModel())
		}
	}

	resp, err := h.deps.Balance(r.Context(), in)
	if err != nil {
		status, code := classify(err)
		if status >= http.StatusInternalServerError && h.log != nil {
			h.log.Error(r.Context(), "balance failed", logger.Error(err))
		}
		kind := ErrBadRequest
		switch status {
		case http.StatusUnprocessableEntity:
			kind = ErrUnprocessable
		case http.StatusInternalServerError:
			kind = ErrInternal
		}
		writeError(w, status, code, WrapKind(op, kind, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// classify maps a balancing error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, partition.ErrInsufficientPlayers):
		return http.StatusUnprocessableEntity, "insufficient_players"
	case errors.Is(err, types.ErrDuplicateName):
		return http.StatusBadRequest, "duplicate_name"
	case errors.Is(err, types.ErrTooManyParticipants):
		return http.StatusBadRequest, "too_many_participants"
	case errors.Is(err, types.ErrInvalidRequest), errors.Is(err, partition.ErrInvalidGroupSize):
		return http.StatusBadRequest, "invalid_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
