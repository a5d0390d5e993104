package jobdesc

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `<html>
<head><title>Job</title><style>.x { color: red }</style></head>
<body>
<nav>Home | Jobs</nav>
<main>
  <h1>Senior   Data Engineer</h1>
  <p>Build real-time pipelines with Kafka.</p>
  <ul>
    <li>Python and SQL</li>
    <li>Airflow,   dbt</li>
  </ul>
  <script>track("view")</script>
</main>
<footer>Copyright</footer>
</body>
</html>`

const postingText = "Senior Data Engineer\nBuild real-time pipelines with Kafka.\nPython and SQL\nAirflow, dbt"

func TestLoadEmptyInput(t *testing.T) {
	text, err := Load(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestLoadPlainTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Data   Engineer \n\n\n Kafka\tand Spark \n"), 0o600))

	text, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer\nKafka and Spark", text)
}

func TestLoadHTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.HTML")
	require.NoError(t, os.WriteFile(path, []byte(postingHTML), 0o600))

	text, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, postingText, text)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "reading job description")
}

func TestLoadURL(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "html",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				_, _ = w.Write([]byte(postingHTML))
			},
			want: postingText,
		},
		{
			name: "gzip html",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.Header().Set("Content-Encoding", "gzip")
				gz := gzip.NewWriter(w)
				_, _ = gz.Write([]byte(postingHTML))
				_ = gz.Close()
			},
			want: postingText,
		},
		{
			name: "plain text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = w.Write([]byte("Kafka   engineer\n\nRemote"))
			},
			want: "Kafka engineer\nRemote",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var agent string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				agent = r.Header.Get("User-Agent")
				tt.handler(w, r)
			}))
			defer server.Close()

			text, err := Load(context.Background(), server.URL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
			assert.Equal(t, userAgent, agent)
		})
	}
}

func TestLoadURLBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	_, err := Load(context.Background(), server.URL)
	assert.ErrorContains(t, err, "bad status")
}

func TestHTMLTextFallsBackToBody(t *testing.T) {
	text, err := htmlText(strings.NewReader("<html><body><div>Only   a div</div></body></html>"))
	require.NoError(t, err)
	assert.Equal(t, "Only a div", text)
}
