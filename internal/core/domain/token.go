package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// TokenRef uniquely identifies an NFT across all data sources.
// Contract is stored lowercased and TokenID as a decimal string so that
// refs built from the indexer and refs built from chain state compare equal
// regardless of address casing or token-id encoding.
type TokenRef struct {
	Contract string
	TokenID  string
}

// NewTokenRef builds a TokenRef from a contract address and token id.
func NewTokenRef(contract string, tokenID *big.Int) TokenRef {
	return TokenRef{
		Contract: strings.ToLower(contract),
		TokenID:  tokenID.String(),
	}
}

// ParseTokenRef builds a TokenRef from string inputs as they arrive from
// HTTP paths and indexer responses.
func ParseTokenRef(contract, tokenID string) (TokenRef, error) {
	if !common.IsHexAddress(contract) {
		return TokenRef{}, fmt.Errorf("invalid contract address: %q", contract)
	}
	id, err := ParseTokenID(tokenID)
	if err != nil {
		return TokenRef{}, err
	}
	return NewTokenRef(contract, id), nil
}

// ParseTokenID normalizes a token id that may arrive as a decimal or
// 0x-prefixed hex string. Negative values are rejected.
func ParseTokenID(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty token id")
	}

	n := new(big.Int)
	var ok bool
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		_, ok = n.SetString(s[2:], 16)
	} else {
		_, ok = n.SetString(s, 10)
	}
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid token id: %q", s)
	}
	return n, nil
}

// ChecksumAddress returns the EIP-55 mixed-case form used for display and
// on-chain calls.
func ChecksumAddress(addr string) string {
	return common.HexToAddress(addr).Hex()
}

// LowerAddress returns the canonical lookup form of an address. All
// set-membership and equality checks between addresses from different
// sources go through this.
func LowerAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
