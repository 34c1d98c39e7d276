package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeboe/pharma-news/pkg/failure"
)

const articlePage = `<!DOCTYPE html>
<html>
<head><title>Jardiance news</title><script>var x = "<p>not a paragraph</p>";</script></head>
<body>
  <nav><a href="/">Home</a></nav>
  <p>  Boehringer Ingelheim   announced new data. </p>
  <p>   </p>
  <div><p>The <b>EMPEROR</b> trial <a href="#">met</a> its endpoint.</p></div>
  <p>
     Regulators will review the filing.
  </p>
</body>
</html>`

func TestParagraphs(t *testing.T) {
	got, err := Paragraphs(strings.NewReader(articlePage))
	require.NoError(t, err)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Boehringer Ingelheim   announced new data.", lines[0])
	assert.Equal(t, "TheEMPERORtrialmetits endpoint.", lines[1])
	assert.Equal(t, "Regulators will review the filing.", lines[2])
}

func TestParagraphsNoParagraphs(t *testing.T) {
	got, err := Paragraphs(strings.NewReader("<html><body><div>only a div</div></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractSuccess(t *testing.T) {
	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, articlePage)
	}))
	defer srv.Close()

	e := New(time.Second, "pharma-news-test", ModeParagraphs)
	text, err := e.Extract(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Regulators will review the filing.")
	assert.Equal(t, "pharma-news-test", userAgent)
}

func TestExtractFailures(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	forbidden := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "<p>Subscribe to read this article.</p>")
	}))
	defer forbidden.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><div>menu</div></body></html>")
	}))
	defer empty.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name string
		url  string
		kind failure.Kind
	}{
		{"malformed url", "://not a url", failure.FetchFailure},
		{"missing scheme", "example.com/article", failure.FetchFailure},
		{"connection refused", closedURL, failure.FetchFailure},
		{"timeout", slow.URL, failure.FetchFailure},
		{"server error", broken.URL, failure.FetchFailure},
		{"forbidden page with paragraphs", forbidden.URL, failure.FetchFailure},
		{"no paragraphs", empty.URL, failure.ParseFailure},
	}

	e := New(100*time.Millisecond, "", ModeParagraphs)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var text string
			var err error
			assert.NotPanics(t, func() {
				text, err = e.Extract(context.Background(), tt.url)
			})
			require.Error(t, err)
			assert.Empty(t, text)
			assert.True(t, strings.HasPrefix(err.Error(), "Error fetching text:"), err.Error())
			assert.True(t, failure.Is(err, tt.kind), "want kind %s, got %v", tt.kind, err)
		})
	}
}

func TestExtractReadability(t *testing.T) {
	body := strings.Repeat("Empagliflozin reduced cardiovascular death in the EMPEROR-Preserved trial, according to data presented this week. ", 8)
	page := `<html><head><title>Trial results</title></head><body>
<header><a href="/">Pharma Daily</a></header>
<article><h1>Trial results</h1><p>` + body + `</p><p>` + body + `</p><p>` + body + `</p></article>
<footer>Copyright</footer></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	e := New(time.Second, "", ModeReadability)
	text, err := e.Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "EMPEROR-Preserved")
}

func TestNewDefaults(t *testing.T) {
	e := New(0, "", Mode("unknown"))
	assert.Equal(t, DefaultTimeout, e.client.Timeout)
	assert.Equal(t, ModeParagraphs, e.mode)
}

func TestExtractDecodesCharset(t *testing.T) {
	latin1 := "<html><head><meta charset=\"iso-8859-1\"></head><body><p>Sanofi \xe9tude r\xe9sultats 10 \xb5g</p></body></html>"
	windows1252 := "<html><body><p>Pfizer \x93Comirnaty\x94 update</p></body></html>"

	tests := []struct {
		name        string
		contentType string
		page        string
		mode        Mode
		want        string
	}{
		{"meta charset", "text/html", latin1, ModeParagraphs, "Sanofi étude résultats 10 µg"},
		{"header charset", "text/html; charset=iso-8859-1", latin1, ModeParagraphs, "Sanofi étude résultats 10 µg"},
		{"windows-1252 header", "text/html; charset=windows-1252", windows1252, ModeParagraphs, "Pfizer “Comirnaty” update"},
		{"utf-8 untouched", "text/html; charset=utf-8", "<p>Ozempic µg</p>", ModeParagraphs, "Ozempic µg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				fmt.Fprint(w, tt.page)
			}))
			defer srv.Close()

			text, err := New(time.Second, "", tt.mode).Extract(context.Background(), srv.URL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
			assert.True(t, utf8.ValidString(text))
		})
	}
}

func TestExtractReadabilityDecodesCharset(t *testing.T) {
	sentence := "Sanofi a publi\xe9 les r\xe9sultats de l'\xe9tude de phase III sur le traitement, avec une dose de 10 \xb5g par jour. "
	body := strings.Repeat(sentence, 8)
	page := `<html><head><title>Etude</title></head><body><article><h1>Etude</h1><p>` + body + `</p><p>` + body + `</p></article></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	text, err := New(time.Second, "", ModeReadability).Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "résultats")
	assert.True(t, utf8.ValidString(text))
}
