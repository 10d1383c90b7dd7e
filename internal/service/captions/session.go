package captions

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"

	"github.com/stayscout/yt-reviews/internal/retry"
)

const (
	sessionUserAgent      = "Mozilla/5.0"
	sessionAcceptLanguage = "en-US,en;q=0.9,ko;q=0.8"
	downloadTimeout       = 30 * time.Second
)

// Session is the HTTP client used for caption downloads. It carries a fixed
// user-agent and accept-language header and an optional cookie jar loaded
// from a Netscape-format cookies.txt.
type Session struct {
	client *http.Client
	cfg    retry.Config
}

// NewSession builds a download session. Cookie loading is best-effort: a
// missing or corrupt cookie file is logged and treated as no cookies.
func NewSession(cookiesFile string) *Session {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		jar = nil
	}
	if jar != nil && cookiesFile != "" {
		if err := loadNetscapeCookies(jar, cookiesFile); err != nil {
			log.Warn().Err(err).Str("path", cookiesFile).Msg("ignoring unreadable cookie file")
		}
	}
	return &Session{
		client: &http.Client{
			Timeout: downloadTimeout,
			Jar:     jar,
		},
		cfg: retry.DefaultConfig(),
	}
}

// DownloadText fetches a text resource with retry/backoff on transient status
// codes and transport errors. Retry exhaustion returns ("", false) rather than
// an error; fetch loops degrade instead of failing hard.
func (s *Session) DownloadText(ctx context.Context, rawURL string) (string, bool) {
	for _, delay := range retry.Sequence(s.cfg) {
		body, status, err := s.get(ctx, rawURL)
		if err == nil && status == http.StatusOK {
			return body, true
		}
		if err == nil && !retry.RetryableStatus(status) {
			log.Debug().Int("status", status).Str("url", rawURL).Msg("caption download rejected")
			return "", false
		}
		if err != nil {
			log.Debug().Err(err).Str("url", rawURL).Msg("caption download failed, retrying")
		}
		if sleepErr := retry.Sleep(ctx, delay, s.cfg.JitterSpan); sleepErr != nil {
			return "", false
		}
	}
	return "", false
}

func (s *Session) get(ctx context.Context, rawURL string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("User-Agent", sessionUserAgent)
	req.Header.Set("Accept-Language", sessionAcceptLanguage)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}
	return string(body), resp.StatusCode, nil
}

// loadNetscapeCookies reads a Netscape/Mozilla-format cookies.txt into the jar.
// Malformed lines are skipped; only an unreadable file is reported.
func loadNetscapeCookies(jar http.CookieJar, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	byURL := make(map[string][]*http.Cookie)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			continue
		}
		domain := strings.TrimPrefix(fields[0], ".")
		secure := strings.EqualFold(fields[3], "TRUE")
		expires, _ := strconv.ParseInt(fields[4], 10, 64)

		cookie := &http.Cookie{
			Name:   fields[5],
			Value:  fields[6],
			Path:   fields[2],
			Domain: fields[0],
			Secure: secure,
		}
		if expires > 0 {
			cookie.Expires = time.Unix(expires, 0)
		}

		scheme := "http"
		if secure {
			scheme = "https"
		}
		key := fmt.Sprintf("%s://%s%s", scheme, domain, fields[2])
		byURL[key] = append(byURL[key], cookie)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	for rawURL, cookies := range byURL {
		u, err := url.Parse(rawURL)
		if err != nil {
			continue
		}
		jar.SetCookies(u, cookies)
	}
	return nil
}
