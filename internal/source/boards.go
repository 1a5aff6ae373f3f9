package source

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"

	"github.com/amishk599/resumetailor/internal/model"
)

// boardAPIs holds the public API roots of the hosted job boards whose posting
// pages are rendered client side and carry no usable text.
type boardAPIs struct {
	greenhouse string
	lever      string
	ashby      string
}

var defaultBoardAPIs = boardAPIs{
	greenhouse: "https://boards-api.greenhouse.io/v1/boards",
	lever:      "https://api.lever.co/v0/postings",
	ashby:      "https://api.ashbyhq.com/posting-api/job-board",
}

// posting identifies one job on a hosted job board.
type posting struct {
	board   string // "greenhouse", "lever" or "ashby"
	company string
	id      string
}

// parsePosting recognizes job posting URLs on Greenhouse, Lever and Ashby.
func parsePosting(u *url.URL) (posting, bool) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch strings.ToLower(u.Hostname()) {
	case "boards.greenhouse.io", "job-boards.greenhouse.io":
		// /{company}/jobs/{id}
		if len(parts) >= 3 && parts[1] == "jobs" && parts[0] != "" && parts[2] != "" {
			return posting{board: "greenhouse", company: parts[0], id: parts[2]}, true
		}
	case "jobs.lever.co":
		// /{company}/{id}[/apply]
		if len(parts) >= 2 && parts[0] != "" && parts[1] != "" {
			return posting{board: "lever", company: parts[0], id: parts[1]}, true
		}
	case "jobs.ashbyhq.com":
		// /{company}/{id}[/application]
		if len(parts) >= 2 && parts[0] != "" && parts[1] != "" {
			return posting{board: "ashby", company: parts[0], id: parts[1]}, true
		}
	}
	return posting{}, false
}

type greenhousePosting struct {
	Title    string `json:"title"`
	Content  string `json:"content"` // HTML, entity-encoded
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
}

type leverPosting struct {
	Text             string `json:"text"`
	DescriptionPlain string `json:"descriptionPlain"`
	AdditionalPlain  string `json:"additionalPlain"`
	Categories       struct {
		Location   string `json:"location"`
		Team       string `json:"team"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
	Lists []struct {
		Text    string `json:"text"`
		Content string `json:"content"` // HTML list items
	} `json:"lists"`
}

type ashbyBoard struct {
	Jobs []struct {
		ID               string `json:"id"`
		Title            string `json:"title"`
		Location         string `json:"location"`
		DescriptionPlain string `json:"descriptionPlain"`
		JobURL           string `json:"jobUrl"`
	} `json:"jobs"`
}

// fetchPosting returns the description of a job board posting through the
// board's public API.
func (l *Loader) fetchPosting(ctx context.Context, p posting) (string, error) {
	switch p.board {
	case "greenhouse":
		var gp greenhousePosting
		endpoint := fmt.Sprintf("%s/%s/jobs/%s", l.boards.greenhouse, url.PathEscape(p.company), url.PathEscape(p.id))
		if err := l.getJSON(ctx, endpoint, &gp); err != nil {
			return "", fmt.Errorf("greenhouse posting %s/%s: %w", p.company, p.id, err)
		}
		// Greenhouse double-encodes the HTML body.
		return joinSections(gp.Title, gp.Location.Name, htmlToText(html.UnescapeString(gp.Content))), nil

	case "lever":
		var lp leverPosting
		endpoint := fmt.Sprintf("%s/%s/%s?mode=json", l.boards.lever, url.PathEscape(p.company), url.PathEscape(p.id))
		if err := l.getJSON(ctx, endpoint, &lp); err != nil {
			return "", fmt.Errorf("lever posting %s/%s: %w", p.company, p.id, err)
		}
		meta := strings.Join(nonBlank(lp.Categories.Team, lp.Categories.Location, lp.Categories.Commitment), " · ")
		sections := []string{lp.Text, meta, lp.DescriptionPlain}
		for _, list := range lp.Lists {
			sections = append(sections, list.Text+"\n"+htmlToText(list.Content))
		}
		sections = append(sections, lp.AdditionalPlain)
		return joinSections(sections...), nil

	case "ashby":
		var board ashbyBoard
		endpoint := fmt.Sprintf("%s/%s", l.boards.ashby, url.PathEscape(p.company))
		if err := l.getJSON(ctx, endpoint, &board); err != nil {
			return "", fmt.Errorf("ashby board %s: %w", p.company, err)
		}
		for _, j := range board.Jobs {
			if j.ID == p.id || strings.HasSuffix(j.JobURL, "/"+p.id) {
				return joinSections(j.Title, j.Location, j.DescriptionPlain), nil
			}
		}
		return "", fmt.Errorf("ashby board %s: posting %s not found", p.company, p.id)
	}
	return "", fmt.Errorf("unsupported job board %q", p.board)
}

func (l *Loader) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// joinSections joins the non-blank sections with blank lines.
func joinSections(sections ...string) string {
	return strings.Join(nonBlank(sections...), "\n\n")
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
