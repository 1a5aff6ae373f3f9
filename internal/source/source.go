// Package source loads job descriptions and resumes from files or URLs.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/amishk599/resumetailor/internal/model"
)

const (
	// maxBodyBytes caps how much of a remote page is read.
	maxBodyBytes = 5 << 20
	userAgent    = "resumetailor/1.0"
)

// ErrEmpty is returned when a source yields no text.
var ErrEmpty = errors.New("source is empty")

// Loader reads text from local files or http(s) URLs.
type Loader struct {
	httpClient *http.Client
	boards     boardAPIs
}

// NewLoader creates a Loader. A nil client gets a 30s timeout client.
func NewLoader(httpClient *http.Client) *Loader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Loader{httpClient: httpClient, boards: defaultBoardAPIs}
}

// Load returns the text behind input. Greenhouse, Lever and Ashby posting
// URLs are read through the board's API; other http(s) URLs are fetched; .pdf
// and .docx files are converted to plain text; any other file is read as is.
func (l *Loader) Load(ctx context.Context, input string) (string, error) {
	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if p, ok := parsePosting(u); ok {
			text, err := l.fetchPosting(ctx, p)
			if err != nil {
				return "", fmt.Errorf("fetch %s: %w", input, err)
			}
			return nonEmpty(text)
		}
		text, err := l.fetchURL(ctx, input)
		if err != nil {
			return "", fmt.Errorf("fetch %s: %w", input, err)
		}
		return nonEmpty(text)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", input, err)
	}

	var text string
	switch strings.ToLower(filepath.Ext(input)) {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDocx(data)
	default:
		text = string(data)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", input, err)
	}
	return nonEmpty(text)
}

func (l *Loader) fetchURL(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "html") {
		return htmlToText(string(body)), nil
	}
	return string(body), nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()

	return stripTags(doc.Editable().GetContent()), nil
}

func nonEmpty(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	return text, nil
}
