package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/repository"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ArchiveName is the download name of every export
const ArchiveName = "journal_backup.zip"

const exportDateLayout = "2006-01-02"

// Formatter renders one entry into the body of an archive file.
type Formatter interface {
	Extension() string
	Format(e models.Entry) []byte
}

// NewFormatter returns the formatter for "text" or "html".
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "text":
		return TextFormatter{}, nil
	case "html":
		return HTMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// HTMLFormatter writes a minimal HTML page embedding the raw entry content.
type HTMLFormatter struct{}

func (HTMLFormatter) Extension() string { return "html" }

func (HTMLFormatter) Format(e models.Entry) []byte {
	var b strings.Builder
	b.WriteString("<h1>")
	b.WriteString(html.EscapeString(e.Title))
	b.WriteString("</h1><p>Date: ")
	b.WriteString(e.CreatedAt.Format(exportDateLayout))
	b.WriteString("</p><hr>")
	b.WriteString(e.Content)
	return []byte(b.String())
}

// TextFormatter writes a header block followed by the content with all
// markup removed.
type TextFormatter struct{}

func (TextFormatter) Extension() string { return "txt" }

func (TextFormatter) Format(e models.Entry) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", e.Title)
	fmt.Fprintf(&b, "Date: %s\n", e.CreatedAt.Format(exportDateLayout))
	fmt.Fprintf(&b, "Duration: %s\n", e.Duration)
	b.WriteString("\n")
	b.WriteString(StripTags(e.Content))
	b.WriteString("\n")
	return []byte(b.String())
}

// StripTags removes every HTML/XML tag from s and keeps the inner text with
// entities decoded. Line breaks and closing block elements become newlines.
func StripTags(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed trailing input; keep what was read
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Br {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.P, atom.Div, atom.Li, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Blockquote, atom.Pre:
				b.WriteByte('\n')
			}
		}
	}
}

// SanitizeFilename keeps letters, digits, space, hyphen and underscore, then
// trims surrounding whitespace.
func SanitizeFilename(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			return r
		}
		return -1
	}, title)
	return strings.TrimSpace(cleaned)
}

// EntryFilename returns "YYYY-MM-DD - {sanitized title}.{ext}".
func EntryFilename(e models.Entry, ext string) string {
	return fmt.Sprintf("%s - %s.%s", e.CreatedAt.Format(exportDateLayout), SanitizeFilename(e.Title), ext)
}

// Exporter packs a user's entries into a zip archive. It only reads.
type Exporter struct {
	entries   repository.EntryRepository
	formatter Formatter
}

func NewExporter(entries repository.EntryRepository, formatter Formatter) *Exporter {
	return &Exporter{entries: entries, formatter: formatter}
}

type archiveFile struct {
	name  string
	entry models.Entry
}

// WriteArchive streams the owner's archive to w. An owner without entries
// gets a valid empty archive. Entries that map to the same filename collapse
// into one file holding the last one written, matching what an unzip tool
// would leave behind.
func (x *Exporter) WriteArchive(ctx context.Context, owner models.Identity, w io.Writer) (int, error) {
	entries, err := x.entries.ListByOwner(ctx, owner.UserID)
	if err != nil {
		return 0, fmt.Errorf("list entries: %w", err)
	}

	files := make([]archiveFile, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		name := EntryFilename(e, x.formatter.Extension())
		if i, ok := index[name]; ok {
			files[i].entry = e
			continue
		}
		index[name] = len(files)
		files = append(files, archiveFile{name: name, entry: e})
	}

	zw := zip.NewWriter(w)
	for _, f := range files {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.name,
			Method:   zip.Deflate,
			Modified: f.entry.UpdatedAt,
		})
		if err != nil {
			return 0, fmt.Errorf("add %q: %w", f.name, err)
		}
		if _, err := fw.Write(x.formatter.Format(f.entry)); err != nil {
			return 0, fmt.Errorf("write %q: %w", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("close archive: %w", err)
	}
	return len(files), nil
}

// Archive builds the owner's archive in memory.
func (x *Exporter) Archive(ctx context.Context, owner models.Identity) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := x.WriteArchive(ctx, owner, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
