// Package geocode resolves dispatch addresses to coordinates through the
// Kakao local address search API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

const DefaultKakaoURL = "https://dapi.kakao.com"

type KakaoGeocoder struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewKakaoGeocoder(baseURL, apiKey string, timeout time.Duration) *KakaoGeocoder {
	if baseURL == "" {
		baseURL = DefaultKakaoURL
	}
	return &KakaoGeocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type kakaoResponse struct {
	Documents []struct {
		AddressName string `json:"address_name"`
		X           string `json:"x"`
		Y           string `json:"y"`
	} `json:"documents"`
}

// Geocode returns the first match for address. Every failure wraps
// domain.ErrGeocodingFailed.
func (g *KakaoGeocoder) Geocode(ctx context.Context, address string) (domain.LatLng, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.LatLng{}, fmt.Errorf("%w: empty address", domain.ErrGeocodingFailed)
	}

	endpoint := g.baseURL + "/v2/local/search/address.json?query=" + url.QueryEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("%w: %v", domain.ErrGeocodingFailed, err)
	}
	req.Header.Set("Authorization", "KakaoAK "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("%w: %v", domain.ErrGeocodingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.LatLng{}, fmt.Errorf("%w: status %d", domain.ErrGeocodingFailed, resp.StatusCode)
	}

	var body kakaoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.LatLng{}, fmt.Errorf("%w: decode: %v", domain.ErrGeocodingFailed, err)
	}
	if len(body.Documents) == 0 {
		return domain.LatLng{}, fmt.Errorf("%w: no match for %q", domain.ErrGeocodingFailed, address)
	}

	doc := body.Documents[0]
	lng, errX := strconv.ParseFloat(doc.X, 64)
	lat, errY := strconv.ParseFloat(doc.Y, 64)
	if errX != nil || errY != nil {
		return domain.LatLng{}, fmt.Errorf("%w: bad coordinates %q,%q", domain.ErrGeocodingFailed, doc.Y, doc.X)
	}
	return domain.LatLng{Lat: lat, Lng: lng}, nil
}
