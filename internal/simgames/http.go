package simgames

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spoilerfree/gei/pkg/logger"
)

// HTTPClient wraps http.Client with a shared timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitGames posts the batch concurrently.
func submitGames(ctx context.Context, config *Config, games []Game, stats *Stats) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/games"

	var (
		accepted  int64
		duplicate int64
		failed    int64
		submitted int64
	)

	gameChan := make(chan Game, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for game := range gameChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				atomic.AddInt64(&submitted, 1)
				switch submitSingleGame(ctx, client, url, game) {
				case "accepted":
					atomic.AddInt64(&accepted, 1)
				case "duplicate":
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	for _, g := range games {
		gameChan <- g
	}
	close(gameChan)
	wg.Wait()

	stats.GamesSubmitted = int(submitted)
	stats.GamesAccepted = int(accepted)
	stats.GamesDuplicate = int(duplicate)
	stats.GamesFailed = int(failed)

	logger.Get().Info(ctx, "submission complete",
		logger.Int("submitted", stats.GamesSubmitted),
		logger.Int("accepted", stats.GamesAccepted),
		logger.Int("duplicate", stats.GamesDuplicate),
		logger.Int("failed", stats.GamesFailed))
	return nil
}

func submitSingleGame(ctx context.Context, client *HTTPClient, url string, game Game) string {
	payload := map[string]any{
		"game":    game.Game,
		"samples": game.Samples,
	}
	resp, err := client.Post(ctx, url, payload)
	if err != nil {
		logger.Get().Warn(ctx, "submit failed", logger.Error(err))
		return "failed"
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case http.StatusAccepted:
		return "accepted"
	case http.StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Receipt.Duplicate {
			return "duplicate"
		}
		return "accepted"
	default:
		logger.Get().Warn(ctx, "submit rejected",
			logger.Int("status", resp.StatusCode),
			logger.String("body", string(body)))
		return "failed"
	}
}

// getRankings fetches the top N ranking rows.
func getRankings(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/rankings?limit=" + strconv.Itoa(config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rankings: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read rankings: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rankings request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode rankings: %w", err)
	}
	stats.RankingsFetched = len(entries)
	return entries, nil
}
