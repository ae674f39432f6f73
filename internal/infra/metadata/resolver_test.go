package metadata

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const placeholder = "/static/img/placeholder.png"

func newTestResolver() *Resolver {
	return NewResolver("https://ipfs.io/ipfs/", placeholder, 5*time.Second)
}

func TestNormalizeURI(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ipfs prefix", "ipfs://bafy123/image.png", "https://ipfs.io/ipfs/bafy123/image.png"},
		{"ipfs with slash", "ipfs:///bafy123", "https://ipfs.io/ipfs/bafy123"},
		{"https passthrough", "https://example.com/x.png", "https://example.com/x.png"},
		{"http passthrough", "http://example.com/x.png", "http://example.com/x.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, r.NormalizeURI(tt.in))
		})
	}
}

func TestResolve_EmptyURI(t *testing.T) {
	r := newTestResolver()

	meta := r.Resolve(t.Context(), "")
	require.Equal(t, placeholder, meta.Image)
	require.Empty(t, meta.Name)
}

func TestResolve_DataURI(t *testing.T) {
	r := newTestResolver()

	payload := base64.StdEncoding.EncodeToString([]byte(`{"image":"ipfs://bafyX/art.png","name":"Minted #1"}`))
	meta := r.Resolve(t.Context(), "data:application/json;base64,"+payload)

	require.Equal(t, "https://ipfs.io/ipfs/bafyX/art.png", meta.Image)
	require.Equal(t, "Minted #1", meta.Name)
}

func TestResolve_DataURIGarbage(t *testing.T) {
	r := newTestResolver()

	meta := r.Resolve(t.Context(), "data:application/json;base64,!!!notbase64!!!")
	require.Equal(t, placeholder, meta.Image)
}

func TestResolve_HTTPMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"name":"Monad Ape","image":"ipfs://bafyY/ape.png"}`))
	}))
	defer srv.Close()

	r := newTestResolver()
	meta := r.Resolve(t.Context(), srv.URL)

	require.Equal(t, "Monad Ape", meta.Name)
	require.Equal(t, "https://ipfs.io/ipfs/bafyY/ape.png", meta.Image)
}

func TestResolve_HTTPErrorDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	r := newTestResolver()
	meta := r.Resolve(t.Context(), srv.URL)
	require.Equal(t, placeholder, meta.Image)
}

func TestResolve_MalformedJSONDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	r := newTestResolver()
	meta := r.Resolve(t.Context(), srv.URL)
	require.Equal(t, placeholder, meta.Image)
}

func TestResolve_MissingImageFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"name":"imageless"}`))
	}))
	defer srv.Close()

	r := newTestResolver()
	meta := r.Resolve(t.Context(), srv.URL)

	require.Equal(t, "imageless", meta.Name)
	require.Equal(t, placeholder, meta.Image)
}
