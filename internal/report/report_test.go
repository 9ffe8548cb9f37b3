package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nao1215/onionwatch/internal/model"
)

func sampleResults() []model.RunResult {
	return []model.RunResult{
		{
			URL:       "siteA.onion",
			Keywords:  []string{"threat", "security"},
			Sentiment: model.SentimentNeutral,
			Snippet:   "There is a security threat here",
		},
		{
			URL:       "siteB.onion",
			Keywords:  []string{},
			Sentiment: model.SentimentNegative,
			Snippet:   "quoted \"text\", with comma",
		},
	}
}

func sampleRecords() []model.ScrapedRecord {
	return []model.ScrapedRecord{
		{ID: 1, URL: "siteA.onion", Keywords: "threat, security", Sentiment: model.SentimentNeutral, ContentSnippet: "There is a security threat here"},
		{ID: 2, URL: "siteB.onion", Keywords: "", Sentiment: model.SentimentPositive, ContentSnippet: "a | b <script>alert(1)</script>"},
	}
}

func TestExportCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := ExportCSV(&buf, sampleResults()); err != nil {
		t.Fatalf("ExportCSV() error: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "url,keywords,sentiment,snippet\n") {
		t.Errorf("unexpected header line: %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	want := [][]string{
		{"url", "keywords", "sentiment", "snippet"},
		{"siteA.onion", "threat, security", "Neutral", "There is a security threat here"},
		{"siteB.onion", "", "Negative", "quoted \"text\", with comma"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
}

func TestExportCSVEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := ExportCSV(&buf, nil); err != nil {
		t.Fatalf("ExportCSV() error: %v", err)
	}
	if buf.String() != "url,keywords,sentiment,snippet\n" {
		t.Errorf("ExportCSV(nil) = %q", buf.String())
	}
}

func TestExportJSON(t *testing.T) {
	t.Parallel()

	t.Run("array of results", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := ExportJSON(&buf, sampleResults()); err != nil {
			t.Fatalf("ExportJSON() error: %v", err)
		}

		var got []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d objects, want 2", len(got))
		}
		for _, key := range []string{"url", "keywords", "sentiment", "snippet"} {
			if _, ok := got[0][key]; !ok {
				t.Errorf("missing key %q", key)
			}
		}
		if kw, ok := got[0]["keywords"].([]any); !ok || len(kw) != 2 {
			t.Errorf("keywords = %#v, want a two element array", got[0]["keywords"])
		}
		if !strings.Contains(buf.String(), "\n  {") {
			t.Error("expected indented output")
		}
	})

	t.Run("nil is empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := ExportJSON(&buf, nil); err != nil {
			t.Fatalf("ExportJSON() error: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("ExportJSON(nil) = %q", buf.String())
		}
	})
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"CSV", FormatCSV, false},
		{" json ", FormatJSON, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if f, err := FormatFromPath("out/results.csv"); err != nil || f != FormatCSV {
		t.Errorf("FormatFromPath() = %q, %v", f, err)
	}
}

func TestExportFile(t *testing.T) {
	t.Parallel()

	t.Run("writes with owner-only permissions", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "results.json")
		if err := ExportFile(path, FormatJSON, sampleResults()); err != nil {
			t.Fatalf("ExportFile() error: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("permissions = %o, want 600", perm)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !strings.Contains(string(data), "siteA.onion") {
			t.Error("exported file is missing results")
		}
	})

	t.Run("unknown format creates nothing", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "results.xml")
		if err := ExportFile(path, Format("xml"), sampleResults()); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ExportFile() error = %v, want ErrUnknownFormat", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("file should not be created for unknown format")
		}
	})
}

func TestWriteResultsTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteResultsTable(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteResultsTable() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Run results", "siteA.onion", "threat, security", "Negative"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := WriteResultsTable(&buf, nil); err != nil {
		t.Fatalf("WriteResultsTable(nil) error: %v", err)
	}
	if !strings.Contains(buf.String(), "No targets were processed successfully.") {
		t.Errorf("empty results output = %q", buf.String())
	}
}

func TestWriteRecordsTable(t *testing.T) {
	t.Parallel()

	long := model.ScrapedRecord{ID: 9, URL: "long.onion", ContentSnippet: strings.Repeat("x", 200)}

	var buf bytes.Buffer
	if err := WriteRecordsTable(&buf, []model.ScrapedRecord{long}); err != nil {
		t.Fatalf("WriteRecordsTable() error: %v", err)
	}
	if strings.Contains(buf.String(), strings.Repeat("x", SnippetWidth+1)) {
		t.Error("snippet was not truncated")
	}
	if !strings.Contains(buf.String(), "...") {
		t.Error("truncated snippet should end with ...")
	}

	buf.Reset()
	if err := WriteRecordsTable(&buf, nil); err != nil {
		t.Fatalf("WriteRecordsTable(nil) error: %v", err)
	}
	if !strings.Contains(buf.String(), NoDataText) {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate(short) = %q", got)
	}
	// Wide characters take two columns each.
	if got := Truncate("日本語のテキストです", 8); got != "日本..." {
		t.Errorf("Truncate(wide) = %q", got)
	}
}

func TestRecordsHTML(t *testing.T) {
	t.Parallel()

	t.Run("one row per record", func(t *testing.T) {
		t.Parallel()

		html, err := RecordsHTML(sampleRecords())
		if err != nil {
			t.Fatalf("RecordsHTML() error: %v", err)
		}
		if !strings.Contains(html, "<h2>"+RecordsTitle+"</h2>") {
			t.Errorf("missing title heading: %q", html)
		}
		if !strings.HasPrefix(html, "<html><body>") || !strings.HasSuffix(strings.TrimSpace(html), "</body></html>") {
			t.Errorf("not wrapped in html/body: %q", html)
		}
		for _, col := range []string{">ID</th>", ">URL</th>", ">Keywords</th>", ">Sentiment</th>", ">Snippet</th>"} {
			if !strings.Contains(html, col) {
				t.Errorf("missing header %s", col)
			}
		}
		if n := strings.Count(html, "<tr>"); n != 3 {
			t.Errorf("got %d rows, want 3 (header plus two records)", n)
		}
		if strings.Contains(html, "<script>") {
			t.Error("raw html from a snippet leaked into the email body")
		}
	})

	t.Run("cell text is shown literally", func(t *testing.T) {
		t.Parallel()

		records := []model.ScrapedRecord{{
			ID:             7,
			URL:            "http://shop.onion/?a=1&b=2",
			Keywords:       "under_score, *star*",
			Sentiment:      model.SentimentNegative,
			ContentSnippet: `<b>pwned</b> **cheap** [mirror](http://x.onion) a | b \o/ # _x_ ` + "`code`",
		}}
		html, err := RecordsHTML(records)
		if err != nil {
			t.Fatalf("RecordsHTML() error: %v", err)
		}
		for _, want := range []string{
			"&lt;b&gt;pwned&lt;/b&gt;",
			"**cheap**",
			"[mirror](http://x.onion)",
			"a | b",
			`\o/`,
			"# _x_",
			"`code`",
			"http://shop.onion/?a=1&amp;b=2",
			"under_score, *star*",
		} {
			if !strings.Contains(html, want) {
				t.Errorf("missing %q in %q", want, html)
			}
		}
		for _, bad := range []string{"<b>", "<strong>", "<em>", "<a ", "<code>", "<!-- raw HTML omitted -->"} {
			if strings.Contains(html, bad) {
				t.Errorf("cell text was interpreted as markup (%q) in %q", bad, html)
			}
		}
		if n := strings.Count(html, "<td>"); n != 5 {
			t.Errorf("got %d cells, want 5", n)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		html, err := RecordsHTML(nil)
		if err != nil {
			t.Fatalf("RecordsHTML() error: %v", err)
		}
		if !strings.Contains(html, "<h2>"+NoDataText+"</h2>") {
			t.Errorf("empty body = %q", html)
		}
		if strings.Contains(html, "<table>") {
			t.Error("empty body should not contain a table")
		}
	})
}
