package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/viper"

	"github.com/mithrel/mriynyk/internal/db"
	"github.com/mithrel/mriynyk/internal/render"
	"github.com/mithrel/mriynyk/pkg/api"
)

const maxBody = 1 << 20

// Server serves rendered notes and stored messages over HTTP.
type Server struct {
	cfg    *viper.Viper
	store  *db.Store
	log    *log.Logger
	policy *bluemonday.Policy
}

func New(cfg *viper.Viper, store *db.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, store: store, log: logger, policy: notePolicy()}
}

// notePolicy admits exactly the markup the block parser produces.
func notePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h1", "h2", "h3", "h4", "p", "br", "ul", "ol", "li", "pre", "code", "strong", "em", "a", "hr")
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(regexp.MustCompile(`^noopener noreferrer$`)).OnElements("a")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+#.-]+$`)).OnElements("code")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^block-break$`)).OnElements("hr")
	return p
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/render", s.auth(s.handleRender))
	mux.HandleFunc("/v1/messages", s.auth(s.handleMessages))
	mux.HandleFunc("/v1/messages/", s.auth(s.handleMessage))
	mux.HandleFunc("/v1/activity", s.auth(s.handleActivity))
	return mux
}

// ListenAndServe runs the router on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// auth enforces a bearer token when auth.token is configured.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimSpace(s.cfg.GetString("auth.token"))
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := r.Header.Get("Authorization")
		if !strings.HasPrefix(got, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(got, "Bearer ")) != tok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	var req api.RenderRequest
	if err := json.Unmarshal(b, &req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	minChars := s.cfg.GetInt("reader.min_page_chars")
	if req.MinChars != nil {
		minChars = *req.MinChars
	}
	blocks := render.Blocks(req.Text)
	pages := render.Paginate(blocks, minChars)
	res := api.RenderResult{Blocks: render.Strings(blocks), Pages: render.PageStrings(pages)}
	if s.cfg.GetBool("render.sanitize") {
		res = s.sanitize(res)
	}
	s.log.Printf("render: blocks=%d pages=%d min_chars=%d", len(res.Blocks), len(res.Pages), minChars)
	s.writeJSON(w, r, res)
}

func (s *Server) sanitize(res api.RenderResult) api.RenderResult {
	for i, b := range res.Blocks {
		res.Blocks[i] = s.policy.Sanitize(b)
	}
	for i, p := range res.Pages {
		res.Pages[i] = s.policy.Sanitize(p)
	}
	return res
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	student := strings.TrimSpace(q.Get("student"))
	if student == "" {
		http.Error(w, "student is required", http.StatusBadRequest)
		return
	}
	limit := 0
	if ls := strings.TrimSpace(q.Get("limit")); ls != "" {
		if n, err := strconv.Atoi(ls); err == nil && n > 0 {
			limit = n
		}
	}
	msgs, err := s.store.Messages.ListMessages(r.Context(), student, limit)
	if err != nil {
		s.log.Printf("messages: list student=%s: %v", student, err)
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []api.Message{}
	}
	s.writeJSON(w, r, msgs)
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/messages/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	m, err := s.store.Messages.GetMessage(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.log.Printf("messages: get id=%s: %v", id, err)
		http.Error(w, "get failed", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, r, m)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	items, err := s.store.Activity.ListActivity(r.Context(), 0)
	if err != nil {
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []api.Activity{}
	}
	s.writeJSON(w, r, items)
}

// writeJSON encodes v with a content ETag and honours If-None-Match.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	etag := `"` + api.Digest(string(b)) + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}
