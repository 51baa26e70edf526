// Package weather fetches the current conditions around the hotel so the
// concierge can answer weather questions with live data. It is strictly
// best-effort: every failure mode yields an empty enrichment, never an error.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

type Service struct {
	apiKey  string
	lat     float64
	lon     float64
	baseURL string
	httpc   *http.Client
}

func New(apiKey string, lat, lon float64) *Service {
	return &Service{
		apiKey:  apiKey,
		lat:     lat,
		lon:     lon,
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 5 * time.Second},
	}
}

// WithBaseURL points the service at a different OpenWeatherMap-compatible
// endpoint. Used by tests.
func (s *Service) WithBaseURL(u string) *Service {
	s.baseURL = u
	return s
}

type report struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current returns a single prompt-ready sentence describing the weather, or
// "" when no data is available. Callers must treat "" as "omit the sentence".
func (s *Service) Current(ctx context.Context) string {
	if s.apiKey == "" {
		slog.Warn("WEATHER_API_KEY not set, skipping weather data")
		return ""
	}
	url := fmt.Sprintf("%s/weather?lat=%g&lon=%g&units=metric&lang=pl&appid=%s", s.baseURL, s.lat, s.lon, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Error("weather request build failed", "error", err)
		return ""
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		slog.Error("weather fetch failed", "error", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		slog.Error("weather API error", "status", resp.StatusCode)
		return ""
	}
	var w report
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		slog.Error("weather response decode failed", "error", err)
		return ""
	}
	desc := ""
	if len(w.Weather) > 0 {
		desc = w.Weather[0].Description
	}
	return fmt.Sprintf(
		"AKTUALNA POGODA W MIKOŁAJKACH: %d°C (odczuwalna %d°C), %s, wiatr %d m/s, wilgotność %d%%. "+
			"Użyj tych danych, gdy gość pyta o pogodę.",
		int(math.Round(w.Main.Temp)), int(math.Round(w.Main.FeelsLike)), desc,
		int(math.Round(w.Wind.Speed)), w.Main.Humidity,
	)
}
