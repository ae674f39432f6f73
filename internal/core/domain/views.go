package domain

import (
	"math/big"
)

// WeiPerDisplayUnit converts base units to display units (18 decimals).
var WeiPerDisplayUnit = new(big.Float).SetFloat64(1e18)

// DisplayPrice converts a base-unit integer to display units. Rounding is
// acceptable here because the exact base-unit value travels alongside it in
// every view; comparisons must use the base-unit form.
func DisplayPrice(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), WeiPerDisplayUnit).Float64()
	return f
}

// OwnedNft is an indexer-reported NFT decorated with its on-chain listing
// status.
type OwnedNft struct {
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Contract  string `json:"contract_address"`
	TokenID   string `json:"token_id"`
	Thumbnail string `json:"image_thumbnail"`
	Listed    bool   `json:"listed"`
}

// MarketplaceNft is one listed token with its on-chain attributes merged in.
// PriceWei is the exact base-unit value; Price is rounded for display.
type MarketplaceNft struct {
	Contract string  `json:"contract_address"`
	TokenID  string  `json:"token_id"`
	PriceWei string  `json:"price_wei"`
	Price    float64 `json:"price"`
	Symbol   string  `json:"symbol"`
	ImageURL string  `json:"image_url"`
	Owner    string  `json:"owner"`
}

// Proposal is one on-chain bid for a listed token.
type Proposal struct {
	Proposer string  `json:"proposer"`
	PriceWei string  `json:"price_wei"`
	Price    float64 `json:"price"`
}

// TokenProposals is the proposal view for a single token the user navigated
// to, together with the token's current owner.
type TokenProposals struct {
	Contract  string     `json:"contract_address"`
	TokenID   string     `json:"token_id"`
	Owner     string     `json:"owner"`
	Proposals []Proposal `json:"proposals"`
}
