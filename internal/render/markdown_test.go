package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `# Resume Recommendations for Backend Role

## ✅ Definitely Include (Strong Alignment)
### 1. **Payments Platform**
- **Go**: matches the core language requirement

| 1 | Payments Platform | Go, Kubernetes |
|---|---|---|
| 2 | Search | Elasticsearch |

**Pro tip**: mention on-call experience`

func TestHTML_RendersHeadingsListsAndTables(t *testing.T) {
	got, err := HTML(sample)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	for _, want := range []string{
		"<h1>Resume Recommendations for Backend Role</h1>",
		"<strong>Payments Platform</strong>",
		"<li><strong>Go</strong>: matches the core language requirement</li>",
		"<table>",
		"<td>Elasticsearch</td>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML missing %q:\n%s", want, got)
		}
	}
}

func TestHTML_Empty(t *testing.T) {
	got, err := HTML("")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if got != "" {
		t.Errorf("HTML(\"\") = %q, want empty", got)
	}
}

func TestExportHTML_WritesStandaloneDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tailored.html")

	if err := ExportHTML(path, "Tailored Resume", "## Skills\n- Go"); err != nil {
		t.Fatalf("ExportHTML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)
	if !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Error("document does not start with a doctype")
	}
	if !strings.Contains(doc, "<title>Tailored Resume</title>") {
		t.Error("document missing title")
	}
	if !strings.Contains(doc, "<h2>Skills</h2>") || !strings.Contains(doc, "<li>Go</li>") {
		t.Errorf("document missing rendered body:\n%s", doc)
	}
}

func TestTerminal_KeepsText(t *testing.T) {
	got := Terminal(sample, 80)
	for _, want := range []string{"Payments", "Elasticsearch", "on-call"} {
		if !strings.Contains(got, want) {
			t.Errorf("terminal output missing %q", want)
		}
	}
}
