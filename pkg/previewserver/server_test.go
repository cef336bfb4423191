package previewserver

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/smsxml2html/pkg/html/htmltesthelpers"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "conv_files"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "messages.html"), []byte("<h1 id=\"header-title\">Messages</h1>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conv_files", "conv_abc.js"), []byte(`window.convData_abc = "<p>hi</p>";`), 0o600))
	return NewServer(dir, ":0")
}

func get(s *Server, target string) func(*httptest.ResponseRecorder) {
	return func(recorder *httptest.ResponseRecorder) {
		s.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	}
}

func TestServeEntryPage(t *testing.T) {
	s := newTestServer(t)
	htmltesthelpers.AssertHTTPResponseContains(t, []string{`<h1 id="header-title">Messages</h1>`}, get(s, "/messages.html"))

	recorder := httptest.NewRecorder()
	get(s, "/messages.html")(recorder)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "text/html; charset=utf-8", recorder.Header().Get("Content-Type"))
}

func TestRedirectToEntryPage(t *testing.T) {
	recorder := httptest.NewRecorder()
	get(newTestServer(t), "/")(recorder)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/messages.html", recorder.Header().Get("Location"))
}

func TestServeDataFile(t *testing.T) {
	s := newTestServer(t)
	htmltesthelpers.AssertHTTPResponseContains(t, []string{`window.convData_abc = "<p>hi</p>";`}, get(s, "/conv_files/conv_abc.js"))

	recorder := httptest.NewRecorder()
	get(s, "/conv_files/conv_abc.js")(recorder)
	assert.Equal(t, "text/javascript; charset=utf-8", recorder.Header().Get("Content-Type"))
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{"/conv_files/missing.js", "/conv_files/.hidden", "/elsewhere/file.txt", "/conv_files"} {
		t.Run(target, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			get(s, target)(recorder)
			assert.Equal(t, http.StatusNotFound, recorder.Code)
			htmltesthelpers.AssertContains(t, recorder.Body.String(),
				"404 Not Found",
				`<a href="/messages.html">Back to messages</a>`,
			)
		})
	}
}
