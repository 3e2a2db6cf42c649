package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yashgajera132/blockchain-voting-system/common"
	"github.com/yashgajera132/blockchain-voting-system/logging"
)

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJson(w http.ResponseWriter, status int, body *envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Logger.Errorf("failed to encode response, err=%s", err.Error())
	}
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJson(w, status, &envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJson(w, status, &envelope{Success: true, Message: message, Data: data})
}

// writeError maps the error taxonomy onto HTTP statuses. Revert reasons and
// validation messages pass through verbatim; everything unknown collapses to
// a 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *common.ValidationError
	if errors.As(err, &validationErr) {
		writeJson(w, http.StatusBadRequest, &envelope{Message: validationErr.Msg})
		return
	}
	var revertErr *common.RevertError
	if errors.As(err, &revertErr) {
		writeJson(w, http.StatusBadRequest, &envelope{Message: revertErr.Reason})
		return
	}

	switch {
	case errors.Is(err, common.ErrNotFound):
		writeJson(w, http.StatusNotFound, &envelope{Message: "Record not found"})
	case errors.Is(err, common.ErrAlreadyVoted):
		writeJson(w, http.StatusBadRequest, &envelope{Message: "Already voted in this election"})
	case errors.Is(err, common.ErrNotEligible):
		writeJson(w, http.StatusForbidden, &envelope{Message: "Only verified voters can vote"})
	case errors.Is(err, common.ErrUserRejected):
		writeJson(w, http.StatusBadRequest, &envelope{Message: "Transaction rejected by signer"})
	case errors.Is(err, common.ErrStaleSession):
		writeJson(w, http.StatusConflict, &envelope{Message: "Session changed during operation"})
	case errors.Is(err, common.ErrNotConnected), errors.Is(err, common.ErrNetworkMismatch),
		errors.Is(err, common.ErrStoreUnavailable):
		writeJson(w, http.StatusServiceUnavailable, &envelope{Message: "Service temporarily unavailable"})
	default:
		logging.Logger.Errorf("unhandled request error, err=%s", err.Error())
		writeJson(w, http.StatusInternalServerError, &envelope{Message: "Internal server error"})
	}
}
