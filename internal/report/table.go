package report

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/nao1215/markdown"

	"github.com/nao1215/onionwatch/internal/model"
)

// SnippetWidth is the display width snippets are cut to in tables.
const SnippetWidth = 60

// cellEscaper keeps cell text from breaking the table layout.
var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// Truncate shortens s to at most width display columns, ending with "...".
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

func cell(s string) string {
	return cellEscaper.Replace(s)
}

// literalEscaper backslash-escapes every ASCII punctuation character, so a
// markdown renderer prints the text as is instead of reading emphasis,
// links or inline HTML into it.
var literalEscaper = func() *strings.Replacer {
	const punct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	pairs := make([]string, 0, 2*len(punct)+6)
	for _, c := range punct {
		pairs = append(pairs, string(c), `\`+string(c))
	}
	pairs = append(pairs, "\r\n", " ", "\n", " ", "\r", " ")
	return strings.NewReplacer(pairs...)
}()

// literalCell escapes s for a table that is rendered rather than read as
// plain text.
func literalCell(s string) string {
	return literalEscaper.Replace(s)
}

// WriteResultsTable renders run results as a markdown table.
func WriteResultsTable(w io.Writer, results []model.RunResult) error {
	md := markdown.NewMarkdown(w)
	md.H2("Run results")
	md.PlainText("")

	if len(results) == 0 {
		md.PlainText("No targets were processed successfully.")
		return md.Build()
	}

	rows := make([][]string, 0, len(results))
	for i, r := range results {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			cell(r.URL),
			cell(model.KeywordsFrom(r.Keywords)),
			r.Sentiment.String(),
			cell(Truncate(r.Snippet, SnippetWidth)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "URL", "Keywords", "Sentiment", "Snippet"},
		Rows:   rows,
	})
	return md.Build()
}

// WriteRecordsTable renders stored records as a markdown table.
func WriteRecordsTable(w io.Writer, records []model.ScrapedRecord) error {
	md := markdown.NewMarkdown(w)
	md.H2("Stored records")
	md.PlainText("")
	recordsTable(md, records, SnippetWidth, cell)
	return md.Build()
}

// recordsTable adds the records table, or the empty notice, to md.
// A width of zero keeps snippets whole. esc is applied to every text cell.
func recordsTable(md *markdown.Markdown, records []model.ScrapedRecord, width int, esc func(string) string) {
	if len(records) == 0 {
		md.PlainText(NoDataText)
		return
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		snippet := r.ContentSnippet
		if width > 0 {
			snippet = Truncate(snippet, width)
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			esc(r.URL),
			esc(r.Keywords),
			esc(r.Sentiment.String()),
			esc(snippet),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "URL", "Keywords", "Sentiment", "Snippet"},
		Rows:   rows,
	})
}

// RecordsMarkdown returns a titled table of all records with untruncated
// snippets. Cell text is escaped so that rendering the markdown reproduces
// it literally. Without records it is just the no-data heading.
func RecordsMarkdown(records []model.ScrapedRecord) string {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)
	if len(records) == 0 {
		md.H2(NoDataText)
		return md.String()
	}
	md.H2(RecordsTitle)
	md.PlainText("")
	recordsTable(md, records, 0, literalCell)
	return md.String()
}
