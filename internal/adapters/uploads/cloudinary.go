package uploads

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"villa_mare/internal/adapters/observability"
)

const defaultAPI = "https://api.cloudinary.com/v1_1"

// Cloudinary uploads gallery images with signed requests.
type Cloudinary struct {
	api    string
	cloud  string
	key    string
	secret string
	folder string
	hc     *http.Client
	rl     *rate.Limiter
	now    func() time.Time
}

type Config struct {
	APIBase   string // empty means the public Cloudinary API
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func New(cfg Config) (*Cloudinary, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary: cloud name, api key and secret are required")
	}
	api := cfg.APIBase
	if api == "" {
		api = defaultAPI
	}
	return &Cloudinary{
		api:    strings.TrimRight(api, "/"),
		cloud:  cfg.CloudName,
		key:    cfg.APIKey,
		secret: cfg.APISecret,
		folder: strings.Trim(cfg.Folder, "/"),
		hc:     &http.Client{Timeout: 60 * time.Second},
		rl:     rate.NewLimiter(rate.Limit(2), 4),
		now:    time.Now,
	}, nil
}

// sign implements Cloudinary's scheme: sorted k=v pairs joined by &, then the
// secret appended, hashed with SHA-1.
func sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// Upload stores data and returns its https URL.
func (c *Cloudinary) Upload(ctx context.Context, name string, data []byte) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	params := map[string]string{
		"public_id": fmt.Sprintf("%s-%s", slug(base), uuid.NewString()[:8]),
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if c.folder != "" {
		params["folder"] = c.folder
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range params {
		_ = mw.WriteField(k, v)
	}
	_ = mw.WriteField("api_key", c.key)
	_ = mw.WriteField("signature", sign(params, c.secret))
	fw, err := mw.CreateFormFile("file", path.Base(name))
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	endpoint := c.api + "/" + c.cloud + "/image/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("cloudinary", "upload", 0, time.Since(start))
		observability.ObserveExternalError("cloudinary", err)
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("cloudinary", "upload", resp.StatusCode, time.Since(start))

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var out struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode != http.StatusOK {
		msg := out.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return "", fmt.Errorf("cloudinary upload: status %d: %s", resp.StatusCode, msg)
	}
	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	if out.URL == "" {
		return "", fmt.Errorf("cloudinary upload: response has no url")
	}
	return out.URL, nil
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "image"
	}
	return strings.Trim(b.String(), "-")
}
