package jwkcache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCachedDecodingKeyUnknownIssuer(t *testing.T) {
	c := New(http.DefaultClient, nil, nil, false)
	if _, err := c.CachedDecodingKey("https://issuer.example/", "kid-1"); err == nil {
		t.Fatal("expected unknown issuer error")
	}
}

func TestPopulateIssuerThenLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"keys":[{"kid":"k1","n":"modulus","e":"AQAB"},{"kid":"k2","n":"bad","e":"3"}]}`))
	}))
	defer srv.Close()

	c := New(srv.Client(), nil, nil, false)
	if err := c.PopulateIssuer(context.Background(), "test-issuer", srv.URL); err != nil {
		t.Fatalf("PopulateIssuer: %v", err)
	}

	key, err := c.CachedDecodingKey("test-issuer", "k1")
	if err != nil {
		t.Fatalf("CachedDecodingKey: %v", err)
	}
	if key.N != "modulus" {
		t.Fatalf("N = %q", key.N)
	}

	if _, err := c.CachedDecodingKey("test-issuer", "k2"); err == nil {
		t.Fatal("expected k2 (non-AQAB exponent) to have been dropped")
	}
}

func TestGetFederatedJWKRejectsNonFederatedIssuer(t *testing.T) {
	c := New(http.DefaultClient, nil, nil, true)
	if _, err := c.GetFederatedJWK(context.Background(), "https://not-federated.example/", "kid"); err == nil {
		t.Fatal("expected not-a-federated-iss error")
	}
}
