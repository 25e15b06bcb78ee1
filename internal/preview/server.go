// Package preview serves a rendered document with live outline
// navigation: the page reports measured heading offsets and scroll
// positions, the scroll tracker classifies them, and active-heading
// transitions stream back over server-sent events.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	mdnav "github.com/alnah/go-mdnav"
)

// Builder produces a fresh pipeline result; called at startup and on
// every watched content change. The previous result is discarded whole.
type Builder func(ctx context.Context) (*mdnav.Result, error)

// event is one server-sent event.
type event struct {
	name string
	data string
}

// Server exposes the rendered document and its navigation state.
type Server struct {
	router  chi.Router
	log     *slog.Logger
	build   Builder
	tracker *mdnav.Tracker

	scrollOffsetPx int

	mu       sync.RWMutex
	result   *mdnav.Result
	attached bool // layout received for the current result

	subMu   sync.Mutex
	subs    map[int]chan event
	nextSub int
}

// NewServer builds the initial result and wires the routes.
func NewServer(ctx context.Context, build Builder, tracker *mdnav.Tracker, scrollOffsetPx int, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	if scrollOffsetPx <= 0 {
		scrollOffsetPx = mdnav.DefaultScrollOffsetPx
	}

	s := &Server{
		log:            log,
		build:          build,
		tracker:        tracker,
		scrollOffsetPx: scrollOffsetPx,
		subs:           make(map[int]chan event),
	}

	result, err := build(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial build: %w", err)
	}
	s.result = result

	// Fan active-id transitions out to every connected page.
	tracker.Subscribe(func(id string) {
		s.broadcast(event{name: "active", data: id})
	})

	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Get("/", s.handleDocument)
	r.Get("/outline", s.handleOutline)
	r.Get("/headings", s.handleHeadings)
	r.Post("/layout", s.handleLayout)
	r.Post("/scroll", s.handleScroll)
	r.Get("/events", s.handleEvents)

	s.router = r
}

// Rebuild runs the builder again, detaches the tracker (the old offsets
// belong to a dead layout), and tells connected pages to reload.
func (s *Server) Rebuild(ctx context.Context) error {
	result, err := s.build(ctx)
	if err != nil {
		return err
	}

	s.tracker.Detach()

	s.mu.Lock()
	s.result = result
	s.attached = false
	s.mu.Unlock()

	s.broadcast(event{name: "reload", data: ""})
	return nil
}

// handleDocument serves the rendered HTML with the client script attached.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	doc := s.result.HTML
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, withClientScript(doc, s.scrollOffsetPx))
}

// handleOutline serves the outline fragment on its own.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	outline := s.result.Outline
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, outline)
}

// handleHeadings serves the flat heading list as JSON.
func (s *Server) handleHeadings(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	headings := s.result.Headings
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"headings": headings})
}

// layoutReport is the page's measurement of its own geometry, sent after
// load and after layout-affecting events (resize, reflow).
type layoutReport struct {
	Viewport float64            `json:"viewport"`
	Offsets  map[string]float64 `json:"offsets"`
}

// handleLayout feeds measured offsets into the tracker. The first report
// for a freshly built document attaches the tracker; later reports only
// refresh the offset cache.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var report layoutReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		jsonError(w, "invalid layout report: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	headings := s.result.Headings
	first := !s.attached
	s.attached = true
	s.mu.Unlock()

	if first {
		s.tracker.Attach(headings, report.Offsets, report.Viewport)
	} else {
		s.tracker.UpdateOffsets(report.Offsets, report.Viewport)
	}
	w.WriteHeader(http.StatusNoContent)
}

// scrollReport is one scroll notification from the page.
type scrollReport struct {
	Top float64 `json:"top"`
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var report scrollReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		jsonError(w, "invalid scroll report: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.tracker.OnScroll(report.Top)
	w.WriteHeader(http.StatusNoContent)
}

// handleEvents streams active-heading transitions as server-sent events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	// Send the current state so a late-joining page highlights correctly.
	if id, ok := s.tracker.Active(); ok {
		fmt.Fprintf(w, "event: active\ndata: %s\n\n", id)
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, ev.data)
			flusher.Flush()
		}
	}
}

// subscribe registers an SSE client channel.
func (s *Server) subscribe() chan event {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	ch := make(chan event, 16)
	s.subs[s.nextSub] = ch
	s.nextSub++
	return ch
}

// unsubscribe removes an SSE client channel.
func (s *Server) unsubscribe(ch chan event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, c := range s.subs {
		if c == ch {
			delete(s.subs, id)
			return
		}
	}
}

// broadcast sends an event to all connected clients, dropping it for
// clients whose buffers are full rather than blocking the tracker.
func (s *Server) broadcast(ev event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// jsonError writes an error response as JSON.
func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// requestLogger logs incoming requests.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			log.Debug("request", "method", r.Method, "path", r.URL.Path)
		})
	}
}

// clientScript drives the navigation UI in the browser: it measures
// heading offsets, reports scroll positions, listens for active-id
// events to move the highlight, and intercepts outline clicks to scroll
// smoothly with the configured top offset.
const clientScript = `<script>
(function () {
  var OFFSET = %d;

  function measure() {
    var offsets = {};
    document.querySelectorAll("h1[id],h2[id],h3[id],h4[id],h5[id],h6[id]").forEach(function (h) {
      offsets[h.id] = h.offsetTop;
    });
    fetch("/layout", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({viewport: window.innerHeight, offsets: offsets})
    });
  }

  window.addEventListener("load", measure);
  window.addEventListener("resize", measure);

  window.addEventListener("scroll", function () {
    fetch("/scroll", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({top: window.scrollY})
    });
  }, {passive: true});

  var events = new EventSource("/events");
  events.addEventListener("active", function (ev) {
    document.querySelectorAll(".mdnav-item.mdnav-active").forEach(function (el) {
      el.classList.remove("mdnav-active");
    });
    if (ev.data) {
      var item = document.querySelector('.mdnav-item[data-id="' + ev.data + '"]');
      if (item) item.classList.add("mdnav-active");
    }
  });
  events.addEventListener("reload", function () { location.reload(); });

  document.addEventListener("click", function (ev) {
    var link = ev.target.closest(".mdnav-item a");
    if (!link) return;
    var target = document.getElementById(link.getAttribute("href").slice(1));
    if (!target) return;
    ev.preventDefault();
    window.scrollTo({top: target.offsetTop - OFFSET, behavior: "smooth"});
  });
})();
</script>`

// withClientScript appends the navigation script before </body>.
func withClientScript(doc string, scrollOffsetPx int) string {
	script := fmt.Sprintf(clientScript, scrollOffsetPx)
	if idx := strings.LastIndex(strings.ToLower(doc), "</body>"); idx != -1 {
		return doc[:idx] + script + doc[idx:]
	}
	return doc + script
}
