package jd

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

const (
	httpTimeout     = 30 * time.Second
	maxRedirections = 10
	maxContentBytes = 10 * 1024 * 1024
)

// ErrNotFound is returned when a job description file does not exist.
var ErrNotFound = errors.New("job description not found")

// Fetch retrieves job description from file or URL.
func Fetch(input string) (content string, err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, httpTimeout)
	defer cancel()

	content, err = FetchWithContext(ctx, input)
	return content, err
}

// FetchWithContext retrieves job description with context.
func FetchWithContext(ctx context.Context, input string) (content string, err error) {
	if IsURL(input) {
		content, err = fetchFromURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch JD from URL: %s", input)
			return content, err
		}
		return content, err
	}

	content, err = fetchFromFile(input)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch JD from file: %s", input)
		return content, err
	}

	return content, err
}

// Read returns the job description from r, typically stdin.
func Read(r io.Reader) (content string, err error) {
	var data []byte
	data, err = io.ReadAll(io.LimitReader(r, maxContentBytes))
	if err != nil {
		err = errors.Wrap(err, "failed to read job description")
		return content, err
	}

	content = strings.TrimSpace(string(data))
	return content, err
}

// IsURL reports whether input is an http or https URL.
func IsURL(input string) (ok bool) {
	parsedURL, err := url.Parse(input)
	ok = err == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") && parsedURL.Host != ""
	return ok
}

// fetchFromFile reads job description from a file.
func fetchFromFile(path string) (content string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if os.IsNotExist(err) {
		err = errors.Wrap(ErrNotFound, path)
		return content, err
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return content, err
	}

	content = strings.TrimSpace(string(data))
	if content == "" {
		err = errors.New("file is empty")
		return content, err
	}

	return content, err
}

// fetchFromURL retrieves job description from a URL.
func fetchFromURL(ctx context.Context, urlStr string) (content string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return content, err
	}

	req.Header.Set("User-Agent", "tex-tailor/1.0")

	client := &http.Client{
		Timeout: httpTimeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) (redirectErr error) {
			if len(via) >= maxRedirections {
				redirectErr = errors.New("stopped after too many redirects")
			}
			return redirectErr
		},
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return content, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return content, err
	}

	var bodyBytes []byte
	bodyBytes, err = io.ReadAll(io.LimitReader(resp.Body, maxContentBytes))
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return content, err
	}

	content = string(bodyBytes)

	if isHTML(resp.Header.Get("Content-Type"), content) {
		content, err = extractText(content)
		if err != nil {
			return content, err
		}
	}

	content = strings.TrimSpace(content)
	if content == "" {
		err = errors.New("fetched content is empty after processing")
		return content, err
	}

	return content, err
}

func isHTML(contentType, body string) (ok bool) {
	if strings.Contains(contentType, "text/html") {
		ok = true
		return ok
	}
	if contentType == "" {
		trimmed := strings.ToLower(strings.TrimSpace(body))
		ok = strings.HasPrefix(trimmed, "<!doctype html") || strings.HasPrefix(trimmed, "<html")
	}
	return ok
}

// extractText returns the visible text of an HTML page, one block per line.
func extractText(html string) (text string, err error) {
	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		err = errors.Wrap(err, "failed to parse HTML")
		return text, err
	}

	doc.Find("script, style, noscript, nav, header, footer").Remove()
	doc.Find("p, li, h1, h2, h3, h4, h5, h6, div, br, tr, dt, dd").AppendHtml("\n")

	lines := make([]string, 0)
	for _, line := range strings.Split(doc.Find("body").Text(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}

	text = strings.Join(lines, "\n")
	return text, err
}
