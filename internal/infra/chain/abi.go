package chain

import (
	_ "embed"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// The ABI documents are fixed JSON schemas loaded at startup, never
// re-derived. MarketplaceABIJSON is also served verbatim to wallet clients.

//go:embed abi/NFTMarketplace.abi.json
var MarketplaceABIJSON []byte

//go:embed abi/ERC721.abi.json
var ERC721ABIJSON []byte

func parseABI(raw []byte) (abi.ABI, error) {
	return abi.JSON(strings.NewReader(string(raw)))
}
