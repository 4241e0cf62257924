package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/weavehq/weave/internal/matcher"
	"github.com/weavehq/weave/internal/resolved"
	"github.com/weavehq/weave/internal/werr"
)

func (d *Dispatcher) runHTTP(ctx context.Context, grp *group) error {
	m := newMatcherFor(grp)
	h := &httpHandler{matcher: m, log: d.log, client: d.client}

	ln, err := net.Listen("tcp", grp.addr)
	if err != nil {
		msg := fmt.Sprintf("could not bind http listener on %s", grp.addr)
		return werr.New(werr.KindListenBind, msg, fmt.Errorf("listening on %s: %w", grp.addr, err))
	}

	srv := &http.Server{Addr: grp.addr, Handler: h}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	d.log.Info("http listener starting", "addr", grp.addr, "routes", len(grp.http))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		msg := fmt.Sprintf("http listener on %s stopped unexpectedly", grp.addr)
		return werr.New(werr.KindInternalIO, msg, fmt.Errorf("http listener on %s: %w", grp.addr, err))
	}
	<-shutdownDone
	return nil
}

// httpHandler dispatches each request to the sorted rule set for its
// listener, logging one structured line per request.
type httpHandler struct {
	matcher *matcher.Matcher
	log     *slog.Logger
	client  *http.Client
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	query := ""
	if r.URL.RawQuery != "" {
		query = r.URL.RawQuery
	}

	target, ok := h.matcher.Resolve(r.URL.Path, query)
	if !ok {
		writeWeaveError(rec, http.StatusNotFound, errors.New("No routes matched"))
		h.logRequest(r, rec, start)
		return
	}

	h.serveTarget(rec, r, target)
	h.logRequest(r, rec, start)
}

func (h *httpHandler) logRequest(r *http.Request, rec *statusRecorder, start time.Time) {
	h.log.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start),
		"remote", r.RemoteAddr,
	)
}

func (h *httpHandler) serveTarget(w http.ResponseWriter, r *http.Request, target resolved.Target) {
	switch target.Kind {
	case resolved.KindRespond:
		w.WriteHeader(target.Status)
	case resolved.KindForwardUrl:
		h.forwardURL(w, r, target.URL)
	case resolved.KindServeFile:
		serveFile(w, target.Path)
	case resolved.KindForwardSocket:
		msg := "route resolved to a raw tcp socket target from an http listener"
		writeWeaveError(w, http.StatusInternalServerError, werr.New(werr.KindUpstreamProto, msg, errors.New(msg)))
	}
}

func (h *httpHandler) forwardURL(w http.ResponseWriter, r *http.Request, target string) {
	u, err := url.Parse(target)
	if err != nil {
		msg := "building upstream url failed"
		writeWeaveError(w, http.StatusInternalServerError, werr.New(werr.KindInternalIO, msg, fmt.Errorf("building upstream url: %w", err)))
		return
	}

	proxy := &httputil.ReverseProxy{
		Transport: h.client.Transport,
		Director: func(req *http.Request) {
			req.URL = u
			req.Host = u.Host
		},
		ErrorHandler: func(w http.ResponseWriter, _ *http.Request, err error) {
			msg := "forwarding to upstream failed"
			classified := werr.New(werr.KindUpstreamDial, msg, fmt.Errorf("forwarding to %s: %w", target, err))
			h.log.Debug("upstream forward failed", "error", werr.DebugMessage(classified))
			writeWeaveError(w, http.StatusInternalServerError, classified)
		},
	}
	proxy.ServeHTTP(w, r)
}

func serveFile(w http.ResponseWriter, base string) {
	candidates := []string{base, filepath.Join(base, "index.htm"), filepath.Join(base, "index.html")}
	for _, c := range candidates {
		data, err := os.ReadFile(c)
		if err != nil {
			continue
		}
		if ct := mime.TypeByExtension(filepath.Ext(c)); ct != "" {
			w.Header().Set("Content-Type", ct)
		} else {
			w.Header().Set("Content-Type", "application/octet-stream")
		}
		w.Write(data)
		return
	}
	msg := fmt.Sprintf("no file found at %s", base)
	writeWeaveError(w, http.StatusNotFound, werr.New(werr.KindFileNotFound, msg, errors.New(msg)))
}

// writeWeaveError writes a plain-text, "Weave: "-prefixed failure body so
// the message is distinguishable from an upstream's own error pages. Only
// the user-safe half of a classified error ever reaches the client; the full
// cause chain is for logs.
func writeWeaveError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, "Weave: %s\n", werr.UserMessage(err))
}

// statusRecorder captures the status code a downstream handler (including
// httputil.ReverseProxy) actually writes, for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (s *statusRecorder) WriteHeader(status int) {
	if !s.wrote {
		s.status = status
		s.wrote = true
	}
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wrote {
		s.status = http.StatusOK
		s.wrote = true
	}
	return s.ResponseWriter.Write(b)
}
