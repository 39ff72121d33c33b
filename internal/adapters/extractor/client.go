package extractor

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"villa_mare/internal/adapters/observability"
	"villa_mare/internal/domain"
)

// MaxPageChars caps how much of the fetched page is sent to the model.
const MaxPageChars = 50000

const systemPrompt = `You extract a single guest review of a holiday home from the HTML of a review page.
Answer with a JSON object with exactly these keys:
"guest_name" (string, empty if unknown), "content" (the review text, in its original language),
"rating" (number from 1 to 5, convert other scales), "external_source" (site name such as Airbnb, Booking.com, Google).`

var (
	ErrNotFound     = errors.New("extractor: not found")
	ErrUnauthorized = errors.New("extractor: unauthorized")
	ErrForbidden    = errors.New("extractor: forbidden")
)

// Client fetches third-party review pages and asks an OpenAI-compatible
// chat completions API to pull the review out of them.
type Client struct {
	base  string
	key   string
	model string
	hc    *http.Client
	rl    *rate.Limiter
}

func New(base, key, model string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("AI API key is required")
	}
	if rps <= 0 {
		rps = 2
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		key:   key,
		model: model,
		hc:    &http.Client{Timeout: 30 * time.Second},
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

func (c *Client) Extract(ctx context.Context, pageURL string) (domain.ExtractedReview, error) {
	page, err := c.do(ctx, "page", http.MethodGet, pageURL, nil, map[string]string{
		"Accept": "text/html,application/xhtml+xml",
	})
	if err != nil {
		return domain.ExtractedReview{}, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	text := truncateChars(string(page), MaxPageChars)

	body, _ := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "URL: " + pageURL + "\n\n" + text},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0,
	})
	raw, err := c.do(ctx, "chat", http.MethodPost, c.base+"/chat/completions", body, map[string]string{
		"Authorization": "Bearer " + c.key,
		"Content-Type":  "application/json",
		"Accept":        "application/json",
	})
	if err != nil {
		return domain.ExtractedReview{}, fmt.Errorf("chat completion: %w", err)
	}
	return parseCompletion(raw, pageURL)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// extraction tolerates fractional ratings and a missing rating.
type extraction struct {
	GuestName      string   `json:"guest_name"`
	Content        string   `json:"content"`
	Rating         *float64 `json:"rating"`
	ExternalSource string   `json:"external_source"`
}

func parseCompletion(raw []byte, pageURL string) (domain.ExtractedReview, error) {
	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.ExtractedReview{}, fmt.Errorf("decode completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.ExtractedReview{}, errors.New("completion has no choices")
	}
	var ex extraction
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &ex); err != nil {
		return domain.ExtractedReview{}, fmt.Errorf("decode extraction: %w", err)
	}
	out := domain.ExtractedReview{
		GuestName:      strings.TrimSpace(ex.GuestName),
		Content:        strings.TrimSpace(ex.Content),
		ExternalSource: strings.TrimSpace(ex.ExternalSource),
		ExternalLink:   pageURL,
	}
	if ex.Rating != nil {
		out.Rating = int(math.Round(*ex.Rating))
	}
	return out, nil
}

// do sends one request with client-side rate limiting and retries on 429 and
// transient 5xx, honoring Retry-After when provided.
func (c *Client) do(ctx context.Context, endpoint, method, url string, body []byte, headers map[string]string) ([]byte, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rd)
		if err != nil {
			return nil, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		req.Header.Set("User-Agent", "villa-mare/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("extractor", endpoint, 0, time.Since(start))
			observability.ObserveExternalError("extractor", err)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr
		}
		observability.ObserveExternal("extractor", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			resp.Body.Close()
			return b, err

		case http.StatusNotFound:
			resp.Body.Close()
			return nil, ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return nil, ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return nil, ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return nil, lastErr
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent or invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}

// truncateChars keeps the first n characters of s without splitting one.
func truncateChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
