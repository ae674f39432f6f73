package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	logger "log/slog"

	"github.com/bytemint/minty/internal/core/domain"
	"github.com/bytemint/minty/internal/metrics"
)

// tokenTypeERC721 is the only classification this marketplace displays;
// ERC-1155 and unknown types are silently dropped.
const tokenTypeERC721 = "ERC721"

// maxPages bounds pageKey pagination so a misbehaving upstream cannot loop
// us forever.
const maxPages = 10

// OwnedToken is one ERC-721 reported by the ownership indexer.
type OwnedToken struct {
	Name      string
	Symbol    string
	Contract  string
	TokenID   string
	Thumbnail string
}

// Client queries the third-party NFT ownership indexing API
// (getNFTsForOwner shape).
type Client struct {
	endpoint string
	pageSize int
	http     *http.Client
	log      *logger.Logger
}

// NewClient builds the indexer client. apiKey, when present, is a path
// segment of the endpoint as the upstream requires.
func NewClient(baseURL, apiKey string, pageSize int, timeout time.Duration) *Client {
	endpoint := strings.TrimSuffix(baseURL, "/")
	if apiKey != "" {
		endpoint += "/" + apiKey
	}
	endpoint += "/getNFTsForOwner"

	return &Client{
		endpoint: endpoint,
		pageSize: pageSize,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: logger.Default(),
	}
}

// flexString tolerates upstream fields that arrive as either a JSON string
// or a number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	// Wrong-typed field: treat as absent rather than failing the response
	*f = ""
	return nil
}

type rawOwnedNft struct {
	TokenType string     `json:"tokenType"`
	TokenID   flexString `json:"tokenId"`
	Contract  struct {
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
		Address string `json:"address"`
	} `json:"contract"`
	Image struct {
		ThumbnailURL string `json:"thumbnailUrl"`
	} `json:"image"`
}

type ownedNftsResponse struct {
	OwnedNfts []rawOwnedNft `json:"ownedNfts"`
	PageKey   string        `json:"pageKey"`
}

// OwnedTokens returns the ERC-721 tokens held by wallet, in the order the
// indexer reports them. A missing wallet is a caller error; any upstream
// failure is a dependency error, so callers can tell "bad request" from
// "upstream unavailable".
func (c *Client) OwnedTokens(ctx context.Context, wallet string) ([]OwnedToken, error) {
	if strings.TrimSpace(wallet) == "" {
		return nil, domain.Preconditionf("wallet address is required")
	}

	var tokens []OwnedToken
	pageKey := ""

	for page := 0; page < maxPages; page++ {
		resp, err := c.fetchPage(ctx, wallet, pageKey)
		if err != nil {
			metrics.IndexerRequestsTotal.WithLabelValues("error").Inc()
			return nil, domain.Dependency("indexer", err)
		}
		metrics.IndexerRequestsTotal.WithLabelValues("ok").Inc()

		for _, raw := range resp.OwnedNfts {
			if raw.TokenType != tokenTypeERC721 {
				continue
			}
			tokens = append(tokens, OwnedToken{
				Name:      raw.Contract.Name,
				Symbol:    raw.Contract.Symbol,
				Contract:  raw.Contract.Address,
				TokenID:   string(raw.TokenID),
				Thumbnail: raw.Image.ThumbnailURL,
			})
		}

		if resp.PageKey == "" {
			break
		}
		pageKey = resp.PageKey
	}

	return tokens, nil
}

func (c *Client) fetchPage(ctx context.Context, wallet, pageKey string) (*ownedNftsResponse, error) {
	q := url.Values{}
	q.Set("owner", wallet)
	q.Set("withMetadata", "true")
	q.Set("pageSize", strconv.Itoa(c.pageSize))
	if pageKey != "" {
		q.Set("pageKey", pageKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("indexer fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed ownedNftsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &parsed, nil
}
