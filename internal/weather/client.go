// Package weather reports current conditions via the OpenWeatherMap API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

type Client struct {
	baseURL     string
	apiKey      string
	defaultCity string
	http        *http.Client
	logger      *slog.Logger
}

func NewClient(apiKey, defaultCity string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:     defaultBaseURL,
		apiKey:      strings.TrimSpace(apiKey),
		defaultCity: strings.TrimSpace(defaultCity),
		http:        &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// SetBaseURL points the client at a different API host. Used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Current fetches conditions for the city and composes the spoken reply.
// Every failure maps to a sayable message, never an error surface.
func (c *Client) Current(ctx context.Context, city string) (bool, string) {
	if !c.Enabled() {
		return false, "The weather service is not configured."
	}
	if city == "" {
		city = c.defaultCity
	}
	if city == "" {
		return false, "Tell me which city, like 'weather in London'."
	}

	obs, err := c.fetch(ctx, city)
	if err != nil {
		if err == errCityNotFound {
			return false, fmt.Sprintf("I couldn't find weather for %s.", city)
		}
		c.logger.Warn("weather fetch failed", "city", city, "error", err)
		return false, "Sorry, I couldn't fetch the weather right now."
	}
	return true, fmt.Sprintf("It's %d degrees Celsius in %s with %s.",
		int(math.Round(obs.Temperature)), obs.City, obs.Description)
}

var errCityNotFound = fmt.Errorf("city not found")

type observation struct {
	City        string
	Description string
	Temperature float64
}

func (c *Client) fetch(ctx context.Context, city string) (observation, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return observation{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return observation{}, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return observation{}, errCityNotFound
	}
	if resp.StatusCode >= 300 {
		return observation{}, fmt.Errorf("weather api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out struct {
		Name    string `json:"name"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return observation{}, err
	}
	if len(out.Weather) == 0 {
		return observation{}, fmt.Errorf("weather api returned no conditions")
	}

	name := out.Name
	if name == "" {
		name = city
	}
	return observation{
		City:        name,
		Description: out.Weather[0].Description,
		Temperature: out.Main.Temp,
	}, nil
}
