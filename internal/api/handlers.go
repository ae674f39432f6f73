package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/bytemint/minty/internal/core/domain"
	"github.com/bytemint/minty/internal/infra/chain"
	"github.com/bytemint/minty/internal/infra/session"
)

type loginRequest struct {
	WalletAddress string `json:"wallet_address"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Preconditionf("invalid request body"))
		return
	}
	if req.WalletAddress == "" {
		writeError(w, domain.Preconditionf("wallet_address is required"))
		return
	}

	user, err := s.users.GetOrCreate(r.Context(), req.WalletAddress)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := s.sessions.Create(r.Context(), session.Session{
		UserID: user.ID,
		Wallet: user.WalletAddress,
	}, s.sessionTTL)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(s.sessionTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"id":             user.ID,
		"wallet_address": user.WalletAddress,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if err := s.sessions.Delete(r.Context(), c.Value); err != nil {
			s.log.Warn("failed to delete session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (s *Server) handleMarketplaceABI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(chain.MarketplaceABIJSON)
}

func (s *Server) handleContractAddress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"address": domain.ChecksumAddress(s.chain.MarketplaceAddress),
	})
}

// handleNetworkConfig returns the chain description in the shape wallet
// clients expect for wallet_addEthereumChain, chainId as a hex string.
func (s *Server) handleNetworkConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"chainId":           fmt.Sprintf("0x%x", s.chain.ChainID),
		"chainName":         s.chain.ChainName,
		"nativeCurrency":    s.chain.NativeCurrency,
		"rpcUrls":           []string{s.chain.RPCURL},
		"blockExplorerUrls": []string{s.chain.ExplorerURL},
		"blockGasLimit":     s.chain.BlockGasLimit,
	})
}

// currentSession returns the session for the request cookie, or nil when
// the caller is not logged in.
func (s *Server) currentSession(r *http.Request) *session.Session {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	sess, err := s.sessions.Get(r.Context(), c.Value)
	if err != nil {
		s.log.Warn("session lookup failed", "error", err)
		return nil
	}
	return sess
}

func (s *Server) handleOwnedListings(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(r)
	if sess == nil || sess.Wallet == "" {
		// Missing identity is the caller's problem, not an upstream failure
		writeError(w, domain.Preconditionf("wallet address required"))
		return
	}

	views, err := s.engine.OwnedListings(r.Context(), sess.Wallet)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	views, err := s.engine.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleProposals(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	out, err := s.engine.Proposals(r.Context(), vars["contract"], vars["tokenId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type offerRequest struct {
	Contract   string `json:"contract_address"`
	TokenID    string `json:"token_id"`
	OfferPrice string `json:"offer_price"`
}

func (s *Server) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(r)
	if sess == nil || sess.Wallet == "" {
		writeError(w, domain.Preconditionf("login required"))
		return
	}

	var req offerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Preconditionf("invalid request body"))
		return
	}
	if req.OfferPrice == "" {
		writeError(w, domain.Preconditionf("offer_price is required"))
		return
	}
	if _, err := domain.ParseTokenRef(req.Contract, req.TokenID); err != nil {
		writeError(w, domain.Preconditionf("invalid token reference: %v", err))
		return
	}

	nft, err := s.nfts.Upsert(r.Context(), req.Contract, req.TokenID)
	if err != nil {
		writeError(w, err)
		return
	}
	offer, err := s.offers.Create(r.Context(), nft.ID, sess.Wallet, req.OfferPrice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if _, err := domain.ParseTokenRef(vars["contract"], vars["tokenId"]); err != nil {
		writeError(w, domain.Preconditionf("invalid token reference: %v", err))
		return
	}

	nft, err := s.nfts.GetByRef(r.Context(), vars["contract"], vars["tokenId"])
	if err != nil {
		writeError(w, err)
		return
	}
	if nft == nil {
		// Never cached means no offers were ever recorded
		writeJSON(w, http.StatusOK, []domain.Offer{})
		return
	}

	offers, err := s.offers.ListForNFT(r.Context(), nft.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if offers == nil {
		offers = []domain.Offer{}
	}
	writeJSON(w, http.StatusOK, offers)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.db.Health(ctx); err != nil {
			s.log.Error("health check failed", "error", err)
			status = "critical"
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, map[string]string{"status": status})
}
