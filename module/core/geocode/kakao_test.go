package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

func TestGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/local/search/address.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("query"); q != "서울 종로구 세종대로 209" {
			t.Errorf("unexpected query %q", q)
		}
		if auth := r.Header.Get("Authorization"); auth != "KakaoAK secret" {
			t.Errorf("unexpected auth header %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"documents":[{"address_name":"서울 종로구 세종대로 209","x":"126.9769","y":"37.5759"}]}`))
	}))
	defer srv.Close()

	g := NewKakaoGeocoder(srv.URL, "secret", time.Second)
	got, err := g.Geocode(context.Background(), "서울 종로구 세종대로 209")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Lat != 37.5759 || got.Lng != 126.9769 {
		t.Errorf("unexpected coordinate %+v", got)
	}
}

func TestGeocode_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		address string
	}{
		{"empty address", http.StatusOK, `{"documents":[]}`, "  "},
		{"no match", http.StatusOK, `{"documents":[]}`, "없는 주소"},
		{"bad status", http.StatusUnauthorized, `{}`, "서울"},
		{"bad json", http.StatusOK, `{"documents":`, "서울"},
		{"bad coordinates", http.StatusOK, `{"documents":[{"x":"abc","y":"37.5"}]}`, "서울"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewKakaoGeocoder(srv.URL, "k", time.Second).Geocode(context.Background(), tt.address)
			if !errors.Is(err, domain.ErrGeocodingFailed) {
				t.Errorf("expected ErrGeocodingFailed, got %v", err)
			}
		})
	}
}
