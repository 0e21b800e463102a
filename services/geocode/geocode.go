package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"keyhubcentral/models"
	"keyhubcentral/services"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// cacheTTL bounds how long a resolved address stays cached. Addresses do not
// move, but provider corrections should eventually propagate.
const cacheTTL = 24 * time.Hour

// Geocoder resolves a free-text address to coordinates. Implementations wrap
// whatever provider is configured; callers only see the {lat, lng} contract.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.GeoPoint, error)
}

// geocodeResponse is the minimal payload the configured endpoint returns.
type geocodeResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HTTPGeocoder calls a geocoding HTTP API with a bounded timeout and caches
// resolved addresses in Redis. Failures degrade to UnresolvedLocationError;
// they never abort the caller's request.
type HTTPGeocoder struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Cache   *redis.Client
	Logger  *zap.Logger
}

// NewHTTPGeocoder builds a geocoder with the given request timeout.
func NewHTTPGeocoder(baseURL, apiKey string, timeout time.Duration, cache *redis.Client) *HTTPGeocoder {
	return &HTTPGeocoder{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
		Cache:   cache,
	}
}

func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (*models.GeoPoint, error) {
	if address == "" {
		return nil, &services.UnresolvedLocationError{Address: address}
	}

	cacheKey := fmt.Sprintf("geocode:%x", address)
	if g.Cache != nil {
		if cached, err := g.Cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var point models.GeoPoint
			if err := json.Unmarshal([]byte(cached), &point); err == nil {
				return &point, nil
			}
		}
	}

	endpoint := fmt.Sprintf("%s?address=%s&key=%s", g.BaseURL, url.QueryEscape(address), url.QueryEscape(g.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &services.UnresolvedLocationError{Address: address, Err: err}
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		if g.Logger != nil {
			g.Logger.Warn("geocoding call failed", zap.String("address", address), zap.Error(err))
		}
		return nil, &services.UnresolvedLocationError{Address: address, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &services.UnresolvedLocationError{
			Address: address,
			Err:     fmt.Errorf("geocoding endpoint returned status %d", resp.StatusCode),
		}
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &services.UnresolvedLocationError{Address: address, Err: err}
	}
	point := models.GeoPoint{Lat: payload.Lat, Lng: payload.Lng}

	if g.Cache != nil {
		if data, err := json.Marshal(point); err == nil {
			g.Cache.Set(ctx, cacheKey, data, cacheTTL)
		}
	}
	return &point, nil
}
