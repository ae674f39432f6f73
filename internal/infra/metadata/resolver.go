package metadata

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	logger "log/slog"
)

const ipfsScheme = "ipfs://"

// Metadata is the subset of token metadata this service consumes. Every
// field of the upstream document is treated as possibly absent or
// wrong-typed, so unknown fields are ignored and Image may be empty.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Resolver fetches and decodes token metadata from HTTP(S), IPFS-gateway
// and data: URIs. It never returns an error: any failure degrades to empty
// metadata with the placeholder image, because one unreachable metadata
// host must not block rendering the rest of the marketplace.
type Resolver struct {
	client      *http.Client
	gateway     string
	placeholder string
	log         *logger.Logger
}

// NewResolver creates a Resolver with a bounded request timeout.
func NewResolver(gateway, placeholder string, timeout time.Duration) *Resolver {
	if !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	return &Resolver{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		gateway:     gateway,
		placeholder: placeholder,
		log:         logger.Default(),
	}
}

// Placeholder returns the static fallback image reference.
func (r *Resolver) Placeholder() string {
	return r.placeholder
}

// Resolve fetches tokenURI and returns the metadata it describes. The
// returned Image is always usable: a normalized metadata image if present,
// the placeholder otherwise.
func (r *Resolver) Resolve(ctx context.Context, tokenURI string) Metadata {
	meta := r.resolve(ctx, tokenURI)

	if meta.Image == "" {
		meta.Image = r.placeholder
	} else {
		meta.Image = r.NormalizeURI(meta.Image)
	}
	return meta
}

func (r *Resolver) resolve(ctx context.Context, tokenURI string) Metadata {
	tokenURI = strings.TrimSpace(tokenURI)
	if tokenURI == "" {
		return Metadata{}
	}

	tokenURI = r.NormalizeURI(tokenURI)

	if strings.HasPrefix(tokenURI, "data:") {
		meta, err := decodeDataURI(tokenURI)
		if err != nil {
			r.log.Warn("failed to decode data uri metadata", "error", err)
			return Metadata{}
		}
		return meta
	}

	meta, err := r.fetch(ctx, tokenURI)
	if err != nil {
		r.log.Warn("failed to fetch token metadata", "uri", tokenURI, "error", err)
		return Metadata{}
	}
	return meta
}

// NormalizeURI rewrites ipfs:// URIs to the configured public gateway.
// Anything else passes through unchanged.
func (r *Resolver) NormalizeURI(uri string) string {
	if rest, ok := strings.CutPrefix(uri, ipfsScheme); ok {
		return r.gateway + strings.TrimPrefix(rest, "/")
	}
	return uri
}

func (r *Resolver) fetch(ctx context.Context, uri string) (Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("metadata fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Metadata{}, fmt.Errorf("http %d from metadata host", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Metadata{}, fmt.Errorf("read response: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return Metadata{}, fmt.Errorf("parse metadata: %w", err)
	}
	return meta, nil
}

// decodeDataURI parses data: token URIs. Everything after the first comma
// is treated as base64-encoded JSON.
func decodeDataURI(uri string) (Metadata, error) {
	_, payload, found := strings.Cut(uri, ",")
	if !found {
		return Metadata{}, fmt.Errorf("data uri has no payload")
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Metadata{}, fmt.Errorf("decode base64: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(decoded, &meta); err != nil {
		return Metadata{}, fmt.Errorf("parse metadata: %w", err)
	}
	return meta, nil
}
