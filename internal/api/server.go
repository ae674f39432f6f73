package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	logger "log/slog"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bytemint/minty/internal/core/config"
	"github.com/bytemint/minty/internal/core/domain"
	"github.com/bytemint/minty/internal/infra/session"
)

// sessionCookie names the browser cookie carrying the session token.
const sessionCookie = "minty_session"

// Reconciler is the read-side engine the API exposes.
type Reconciler interface {
	OwnedListings(ctx context.Context, wallet string) ([]domain.OwnedNft, error)
	Snapshot(ctx context.Context) ([]domain.MarketplaceNft, error)
	Proposals(ctx context.Context, contract, tokenID string) (*domain.TokenProposals, error)
}

// UserStore persists users keyed by wallet address.
type UserStore interface {
	GetOrCreate(ctx context.Context, wallet string) (*domain.User, error)
}

// NFTStore is the local token cache that offers reference.
type NFTStore interface {
	Upsert(ctx context.Context, contract, tokenID string) (*domain.NFT, error)
	GetByRef(ctx context.Context, contract, tokenID string) (*domain.NFT, error)
}

// OfferStore persists off-chain offer records.
type OfferStore interface {
	Create(ctx context.Context, nftID int64, buyerWallet, priceWei string) (*domain.Offer, error)
	ListForNFT(ctx context.Context, nftID int64) ([]domain.Offer, error)
}

// HealthChecker reports the liveness of a backing store.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server exposes the reconciliation engine and the off-chain stores over
// HTTP.
type Server struct {
	engine     Reconciler
	users      UserStore
	nfts       NFTStore
	offers     OfferStore
	sessions   session.Store
	db         HealthChecker
	chain      config.ChainConfig
	sessionTTL time.Duration
	log        *logger.Logger

	server *http.Server
}

// NewServer wires all HTTP routes. db may be nil when no database is
// configured; /health then only reports the process as up.
func NewServer(port int, engine Reconciler, users UserStore, nfts NFTStore, offers OfferStore,
	sessions session.Store, db HealthChecker, chain config.ChainConfig, sessionTTL time.Duration) *Server {

	s := &Server{
		engine:     engine,
		users:      users,
		nfts:       nfts,
		offers:     offers,
		sessions:   sessions,
		db:         db,
		chain:      chain,
		sessionTTL: sessionTTL,
		log:        logger.Default(),
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/logout", s.handleLogout).Methods(http.MethodGet)
	r.HandleFunc("/api/marketplace_abi", s.handleMarketplaceABI).Methods(http.MethodGet)
	r.HandleFunc("/api/marketplace_contract_address", s.handleContractAddress).Methods(http.MethodGet)
	r.HandleFunc("/api/network_config", s.handleNetworkConfig).Methods(http.MethodGet)
	r.HandleFunc("/nfts/mine", s.handleOwnedListings).Methods(http.MethodGet)
	r.HandleFunc("/nfts/marketplace-data", s.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/nfts/view-proposals/{contract}/{tokenId}", s.handleProposals).Methods(http.MethodGet)
	r.HandleFunc("/api/offers", s.handleCreateOffer).Methods(http.MethodPost)
	r.HandleFunc("/api/offers/{contract}/{tokenId}", s.handleListOffers).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
