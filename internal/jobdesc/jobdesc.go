package jobdesc

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	userAgent       = "spigell/resume-tuner"
	acceptEncoding  = "gzip"
	requestTimeout  = 15 * time.Second
	maxBodySize     = 5 << 20
	noiseSelectors  = "script, style, noscript, nav, footer, header"
	contentSelector = "main, article, .job-description, #job-description"
)

// Loader reads job descriptions from URLs, HTML files or plain text files.
type Loader struct {
	HTTPClient *http.Client
	UserAgent  string
	logger     *zap.Logger
}

func New(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
		UserAgent: userAgent,
		logger:    logger,
	}
}

// Load is a shortcut for New(nil).Load.
func Load(ctx context.Context, input string) (string, error) {
	return New(nil).Load(ctx, input)
}

// Load returns the job description text behind input. An empty input yields
// an empty description. http(s) inputs are fetched, anything else is treated
// as a file path.
func (l *Loader) Load(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}

	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return l.fetch(ctx, input)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("reading job description: %w", err)
	}

	switch strings.ToLower(filepath.Ext(input)) {
	case ".html", ".htm":
		return htmlText(strings.NewReader(string(data)))
	default:
		return normalize(string(data)), nil
	}
}

func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", l.UserAgent)
	req.Header.Set("Accept-Encoding", acceptEncoding)

	l.logger.Debug("fetching job description", zap.String("url", url))

	resp, err := l.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching job description: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching job description: bad status: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("fetching job description: %w", err)
		}
		defer gz.Close()
		body = gz
	}
	body = io.LimitReader(body, maxBodySize)

	if strings.Contains(resp.Header.Get("Content-Type"), "html") {
		return htmlText(body)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("reading job description body: %w", err)
	}
	return normalize(string(data)), nil
}

// htmlText drops scripts, styles and page chrome and returns the readable
// text of the posting body.
func htmlText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing job description html: %w", err)
	}

	doc.Find(noiseSelectors).Remove()

	content := doc.Find(contentSelector).First()
	if content.Length() == 0 {
		content = doc.Find("body")
	}

	var lines []string
	content.Find("h1, h2, h3, h4, p, li, dt, dd, td").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Filter("p, li, ul, ol").Length() > 0 {
			return
		}
		lines = append(lines, s.Text())
	})
	if len(lines) == 0 {
		lines = append(lines, content.Text())
	}

	return normalize(strings.Join(lines, "\n")), nil
}

// normalize collapses runs of whitespace inside lines and drops blank lines.
func normalize(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
