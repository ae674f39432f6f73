package domain

import "math/big"

// Listing is one on-chain marketplace listing. Contract is checksummed for
// display and downstream chain calls.
type Listing struct {
	Contract string
	TokenID  *big.Int
}

// ListingBook is the full set of listings read from the marketplace
// contract in on-chain order. It is fetched fresh per request and never
// cached across requests.
type ListingBook struct {
	Listings []Listing
}

// Refs builds a membership set over the book, keyed by normalized TokenRef.
func (b *ListingBook) Refs() map[TokenRef]struct{} {
	set := make(map[TokenRef]struct{}, len(b.Listings))
	for _, l := range b.Listings {
		set[NewTokenRef(l.Contract, l.TokenID)] = struct{}{}
	}
	return set
}

// Len returns the number of listings.
func (b *ListingBook) Len() int {
	return len(b.Listings)
}
