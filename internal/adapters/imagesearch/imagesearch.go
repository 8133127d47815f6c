// Package imagesearch queries the keyed external image-search provider and
// normalizes hits for item photo suggestions.
package imagesearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"click-collectible-service/internal/config"
	"click-collectible-service/internal/httpclient"
	"click-collectible-service/internal/ports/outbound"

	"github.com/rs/zerolog"
)

const defaultResultCount = 10

// GoogleSearcher implements the image searcher interface against the Google
// Custom Search API.
type GoogleSearcher struct {
	client   *httpclient.Client
	apiKey   string
	engineID string
	logger   zerolog.Logger
}

type GoogleSearcherParams struct {
	Config  *config.Config
	BaseURL string
	Logger  zerolog.Logger
}

// NewGoogleSearcher creates a Google image searcher. BaseURL defaults to the
// public customsearch endpoint.
func NewGoogleSearcher(params GoogleSearcherParams) *GoogleSearcher {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/customsearch"
	}

	client := httpclient.New(httpclient.ClientParams{
		BaseURL:     baseURL,
		Credentials: httpclient.StaticCredential(params.Config.ImageSearch.APIKey),
		Logger:      params.Logger,
	})

	return &GoogleSearcher{
		client:   client,
		apiKey:   params.Config.ImageSearch.APIKey,
		engineID: params.Config.ImageSearch.EngineID,
		logger:   params.Logger.With().Str("component", "image_searcher").Logger(),
	}
}

type searchResponse struct {
	Items []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
		Image struct {
			ThumbnailLink string `json:"thumbnailLink"`
		} `json:"image"`
	} `json:"items"`
}

// Search queries the provider and returns normalized image hits
func (g *GoogleSearcher) Search(ctx context.Context, query string) ([]outbound.ImageResult, error) {
	if g.apiKey == "" {
		return nil, httpclient.ErrNoCredential
	}

	params := url.Values{
		"key":        []string{g.apiKey},
		"cx":         []string{g.engineID},
		"q":          []string{query},
		"searchType": []string{"image"},
		"num":        []string{strconv.Itoa(defaultResultCount)},
	}

	var resp searchResponse
	err := g.client.Do(ctx, http.MethodGet, "/v1", &httpclient.Options{
		Out:   &resp,
		Query: params,
	})
	if err != nil {
		g.logger.Error().Err(err).Str("query", query).Msg("Image search failed")
		return nil, fmt.Errorf("image search: %w", err)
	}

	results := make([]outbound.ImageResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, outbound.ImageResult{
			URL:       item.Link,
			Thumbnail: item.Image.ThumbnailLink,
			Title:     item.Title,
		})
	}

	return results, nil
}
