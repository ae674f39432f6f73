package domain

import "time"

// User is created lazily on first login for a wallet address and never
// updated or deleted afterwards.
type User struct {
	ID            int64     `db:"id"             json:"id"`
	WalletAddress string    `db:"wallet_address" json:"wallet_address"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
}

// NFT is the locally cached token record that offers reference.
type NFT struct {
	ID          int64   `db:"id"`
	TokenID     string  `db:"token_id"`
	Contract    string  `db:"contract_address"`
	Name        string  `db:"name"`
	ImageURL    string  `db:"image_url"`
	Description string  `db:"description"`
	PriceWei    string  `db:"price_wei"`
	OwnerID     *int64  `db:"owner_id"`
}

// OfferStatus tracks the lifecycle of a locally recorded offer.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
)

// Offer is an off-chain record of a buyer's bid on a cached NFT.
type Offer struct {
	ID          int64       `db:"id"           json:"id"`
	NFTID       int64       `db:"nft_id"       json:"nft_id"`
	BuyerWallet string      `db:"buyer_wallet" json:"buyer_wallet"`
	PriceWei    string      `db:"offer_price"  json:"offer_price"`
	Status      OfferStatus `db:"status"       json:"status"`
	CreatedAt   time.Time   `db:"created_at"   json:"created_at"`
}
