package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument(t *testing.T) {
	m := New()
	h := m.Instrument("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for range 2 {
		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/items/missing", nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/items/{id}", http.MethodGet, "404")))
}

func TestStateGauges(t *testing.T) {
	m := New()

	m.ObserveCatalog(6, 1)
	m.CatalogRefreshed(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(m.catalogItems))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.catalogVersion))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogRefresh))

	m.ObserveLibrary(3, 1)
	m.LibraryChanged("saved")
	m.LibraryChanged("saved")
	assert.Equal(t, 3.0, testutil.ToFloat64(m.libraryEntries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.libraryRunning))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.libraryChanges.WithLabelValues("saved")))

	m.ObserveClients("sse", 4)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.realtimeClients.WithLabelValues("sse")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveCatalog(6, 1)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "edforge_catalog_items 6"))
	assert.Contains(t, string(body), "go_goroutines")
}
