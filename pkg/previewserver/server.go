package previewserver

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/openshift/smsxml2html/pkg/html/generichtml"
	"github.com/openshift/smsxml2html/pkg/layout"
	"github.com/openshift/smsxml2html/pkg/publish/gcs"
)

var requestsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "smsxml2html_preview_requests_total",
	Help: "Requests served by the archive preview server",
}, []string{"code", "method"})

const shutdownTimeout = 5 * time.Second

// Server serves one archive folder the way a browser opening it from disk would see it.
type Server struct {
	dir        string
	listenAddr string
	httpServer *http.Server
}

func NewServer(dir, listenAddr string) *Server {
	return &Server{
		dir:        dir,
		listenAddr: listenAddr,
	}
}

// Handler routes the entry page and data files; anything else gets a not found page.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/", s.redirectToEntryPage).Methods(http.MethodGet)
	router.HandleFunc("/"+layout.EntryPageName, s.serveEntryPage).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/"+layout.DataDirName+"/{file}", s.serveDataFile).Methods(http.MethodGet, http.MethodHead)
	router.NotFoundHandler = http.HandlerFunc(s.notFound)
	return promhttp.InstrumentHandlerCounter(requestsMetric, router)
}

func (s *Server) redirectToEntryPage(w http.ResponseWriter, req *http.Request) {
	http.Redirect(w, req, "/"+layout.EntryPageName, http.StatusFound)
}

func (s *Server) serveEntryPage(w http.ResponseWriter, req *http.Request) {
	s.serveFile(w, req, filepath.Join(s.dir, layout.EntryPageName))
}

func (s *Server) serveDataFile(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["file"]
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		s.notFound(w, req)
		return
	}
	s.serveFile(w, req, filepath.Join(s.dir, layout.DataDirName, name))
}

func (s *Server) serveFile(w http.ResponseWriter, req *http.Request, path string) {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).WithField("path", path).Error("could not open file")
		}
		s.notFound(w, req)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		s.notFound(w, req)
		return
	}

	w.Header().Set("Content-Type", gcs.ContentType(path))
	http.ServeContent(w, req, info.Name(), info.ModTime(), f)
}

func (s *Server) notFound(w http.ResponseWriter, req *http.Request) {
	generichtml.PrintStatusMessage(w, http.StatusNotFound,
		"Nothing in this archive matches "+req.URL.Path+".", "/"+layout.EntryPageName)
}

// Serve blocks until ctx is cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.listenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("preview server did not shut down cleanly")
		}
	}()

	log.Infof("Serving %s on %s", s.dir, s.listenAddr)
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) GetHTTPServer() *http.Server {
	return s.httpServer
}
