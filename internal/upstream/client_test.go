package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/cristianvalmo/buscacursos-api/pkg/errors"
)

// newTestClient points a client at the test server with a rate limit high
// enough not to slow the suite down.
func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(baseURL, 5*time.Second, 100)
	require.NoError(t, err)
	return client
}

func TestSearchCoursesSendsCatalogParams(t *testing.T) {
	var query url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte("<html>results</html>"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	body, err := client.SearchCourses(context.Background(), "ics2123", "2026-1")
	require.NoError(t, err)
	assert.Equal(t, "<html>results</html>", body)

	assert.Equal(t, "ICS2123", query.Get("cxml_sigla"), "code is uppercased on the wire")
	assert.Equal(t, "2026-1", query.Get("cxml_semestre"))
	assert.Equal(t, "si_tenga", query.Get("cxml_horario_tipo_busqueda"))
}

func TestVacanciesPageTargetsDetailEndpoint(t *testing.T) {
	var path string
	var query url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.Query()
		_, _ = w.Write([]byte("<table></table>"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.VacanciesPage(context.Background(), "12345", "2026-1")
	require.NoError(t, err)

	assert.Equal(t, "/informacionVacReserva.ajax.php", path)
	assert.Equal(t, "12345", query.Get("nrc"))
	assert.Equal(t, "2026-1", query.Get("termcode"))
}

func TestChallengePageReportsBlocked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><title>Just a moment...</title><body>Checking your browser - Cloudflare</body></html>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.SearchCourses(context.Background(), "ICS2123", "2026-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUpstreamBlocked))
}

func TestNon200ReportsBlocked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.SearchCourses(context.Background(), "ICS2123", "2026-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUpstreamBlocked))
}

func TestConnectionFailureReportsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := newTestClient(t, baseURL)
	_, err := client.SearchCourses(context.Background(), "ICS2123", "2026-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUpstreamUnreachable))
}

func TestSemestersPageFetchesSearchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		_, _ = w.Write([]byte(`<select name="cxml_semestre"></select>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	body, err := client.SemestersPage(context.Background())
	require.NoError(t, err)
	assert.Contains(t, body, "cxml_semestre")
}
