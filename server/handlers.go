package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yashgajera132/blockchain-voting-system/auth"
	"github.com/yashgajera132/blockchain-voting-system/reconcile"
	"github.com/yashgajera132/blockchain-voting-system/util"
)

func (s *Server) createElection(w http.ResponseWriter, r *http.Request) {
	var req reconcile.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJson(w, http.StatusBadRequest, &envelope{Message: "Invalid request body"})
		return
	}

	result, err := s.service.CreateElection(r.Context(), &req, auth.FromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	message := "Election created successfully"
	if result.SyncDegraded {
		message = "Election created on ledger, store sync pending"
	}
	writeMessage(w, http.StatusCreated, message, result)
}

func (s *Server) listElections(w http.ResponseWriter, r *http.Request) {
	elections, err := s.service.ListElections(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, elections)
}

func (s *Server) getElection(w http.ResponseWriter, r *http.Request) {
	election, err := s.service.GetElection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, election)
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJson(w, http.StatusBadRequest, &envelope{Message: "Invalid request body"})
		return
	}

	election, err := s.service.SetStatus(r.Context(), chi.URLParam(r, "id"), req.IsActive)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Election status updated", election)
}

func (s *Server) deleteElection(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	message := "Election deleted successfully"
	if result.LedgerDangling {
		message = "Election removed from store, ledger record remains"
	}
	writeMessage(w, http.StatusOK, message, result)
}

func (s *Server) updateElection(w http.ResponseWriter, r *http.Request) {
	var req reconcile.UpdateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJson(w, http.StatusBadRequest, &envelope{Message: "Invalid request body"})
		return
	}

	election, err := s.service.UpdateElection(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Election updated successfully", election)
}

func (s *Server) castVote(w http.ResponseWriter, r *http.Request) {
	var req reconcile.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJson(w, http.StatusBadRequest, &envelope{Message: "Invalid request body"})
		return
	}
	if req.TxHash != "" && !util.IsTxHash(req.TxHash) {
		writeJson(w, http.StatusBadRequest, &envelope{Message: "Invalid transaction hash"})
		return
	}

	result, err := s.service.CastVote(r.Context(), chi.URLParam(r, "id"), &req, auth.FromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Vote cast successfully", result)
}

func (s *Server) listVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := s.service.ListVotes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, votes)
}

func (s *Server) addVoter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VoterId       string `json:"voterId"`
		WalletAddress string `json:"walletAddress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VoterId == "" {
		writeJson(w, http.StatusBadRequest, &envelope{Message: "Invalid request body"})
		return
	}

	err := s.service.AddVoter(r.Context(), chi.URLParam(r, "id"), req.VoterId, req.WalletAddress)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Voter registered successfully", nil)
}

func (s *Server) getResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.service.Results(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, results)
}

func (s *Server) verifyVote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TxHash string `json:"txHash"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !util.IsTxHash(req.TxHash) {
		writeJson(w, http.StatusBadRequest, &envelope{Message: "Invalid transaction hash"})
		return
	}

	vote, err := s.service.VerifyVote(r.Context(), req.TxHash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Vote verified", vote)
}
