package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Geocoder đổi địa chỉ thành tọa độ
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// goongResponse cấu trúc phản hồi geocode của Goong
type goongResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// GoongGeocoder gọi API geocode của Goong
type GoongGeocoder struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewGoongGeocoder(apiKey, baseURL string) *GoongGeocoder {
	if baseURL == "" {
		baseURL = "https://rsapi.goong.io"
	}
	return &GoongGeocoder{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (g *GoongGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	apiURL := fmt.Sprintf("%s/geocode?address=%s&api_key=%s",
		g.BaseURL, url.QueryEscape(address), url.QueryEscape(g.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, 0, err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	return bestCoordinates(resp.Body)
}

// bestCoordinates lấy tọa độ của kết quả đầu tiên
func bestCoordinates(body io.Reader) (float64, float64, error) {
	var response goongResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return 0, 0, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(response.Results) == 0 {
		return 0, 0, errors.New("no results found")
	}
	loc := response.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}

// fullAddress ghép địa chỉ, bỏ qua phần rỗng
func fullAddress(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
