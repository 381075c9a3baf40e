// Package apitest runs an in-memory gallery API for tests. It follows the
// remote service's observable behavior: search/sort on the list, newest-first
// comments capped at 20, server-side validation and like toggling per email.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"fygallery/internal/api"

	"github.com/go-chi/chi/v5"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Request is one request seen by the server.
type Request struct {
	Method    string
	Path      string
	RawQuery  string
	RequestID string
	Body      map[string]string
}

// Server is a fake gallery API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	images   []api.Image
	comments map[int][]api.Comment
	likes    map[int]map[string]bool
	assets   map[string][]byte
	requests []Request
	now      func() time.Time

	// ListDelay, when set, is called before answering a list request with
	// the raw query, letting tests reorder overlapping responses.
	ListDelay func(rawQuery string)
	// FailLists makes list requests answer with a non-JSON body.
	FailLists bool
}

// NewServer starts a fake API seeded with images. It is closed when t ends.
func NewServer(t testing.TB, images ...api.Image) *Server {
	t.Helper()
	s := &Server{
		images:   append([]api.Image(nil), images...),
		comments: make(map[int][]api.Comment),
		likes:    make(map[int]map[string]bool),
		assets:   make(map[string][]byte),
		now:      time.Now,
	}
	r := chi.NewRouter()
	r.Use(s.record)
	r.Get("/api/images", s.listImages)
	r.Get("/api/comments/{id}", s.listComments)
	r.Post("/api/comments/{id}", s.addComment)
	r.Post("/api/like/{id}", s.toggleLike)
	r.Get("/uploads/{filename}", s.serveAsset)
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// NewClient returns an api.Client pointed at the server.
func (s *Server) NewClient(t testing.TB, opts ...api.Option) *api.Client {
	t.Helper()
	c, err := api.NewClient(s.URL, append([]api.Option{api.WithLogger(func(msg string) { t.Logf("api: %s", msg) })}, opts...)...)
	if err != nil {
		t.Fatalf("api.NewClient: %v", err)
	}
	return c
}

// SetAsset registers the bytes served under /uploads/<filename>.
func (s *Server) SetAsset(filename string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[filename] = data
}

// SetImages replaces the stored images.
func (s *Server) SetImages(images ...api.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images = append([]api.Image(nil), images...)
}

// AddComment stores a comment directly.
func (s *Server) AddComment(imageID int, c api.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[imageID] = append(s.comments[imageID], c)
}

// Requests returns a copy of every request seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the requests whose path starts with prefix.
func (s *Server) RequestsTo(prefix string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if strings.HasPrefix(r.Path, prefix) {
			out = append(out, r)
		}
	}
	return out
}

// Image returns the stored image with id.
func (s *Server) Image(id int) (api.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, img := range s.images {
		if img.ID == id {
			return img, true
		}
	}
	return api.Image{}, false
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			RawQuery:  r.URL.RawQuery,
			RequestID: r.Header.Get(api.RequestIDHeader),
		}
		if r.Method == http.MethodPost {
			body := map[string]string{}
			_ = json.NewDecoder(r.Body).Decode(&body)
			req.Body = body
			r = r.WithContext(withBody(r.Context(), body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) listImages(w http.ResponseWriter, r *http.Request) {
	if s.ListDelay != nil {
		s.ListDelay(r.URL.RawQuery)
	}
	if s.FailLists {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>boom</html>"))
		return
	}
	search := strings.ToLower(r.URL.Query().Get("search"))
	mode := r.URL.Query().Get("sort")

	s.mu.Lock()
	images := append([]api.Image(nil), s.images...)
	s.mu.Unlock()

	switch mode {
	case "likes":
		sort.SliceStable(images, func(i, j int) bool { return images[i].Likes > images[j].Likes })
	case "oldest":
		sort.SliceStable(images, func(i, j int) bool { return images[i].UploadedAt < images[j].UploadedAt })
	default:
		sort.SliceStable(images, func(i, j int) bool { return images[i].UploadedAt > images[j].UploadedAt })
	}

	out := make([]api.Image, 0, len(images))
	for _, img := range images {
		if search == "" ||
			strings.Contains(strings.ToLower(img.Title), search) ||
			strings.Contains(strings.ToLower(img.Description), search) {
			out = append(out, img)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func imageID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	id, ok := imageID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.mu.Lock()
	comments := append([]api.Comment(nil), s.comments[id]...)
	s.mu.Unlock()

	sort.SliceStable(comments, func(i, j int) bool { return comments[i].CreatedAt > comments[j].CreatedAt })
	if len(comments) > 20 {
		comments = comments[:20]
	}
	if comments == nil {
		comments = []api.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) hasImage(id int) bool {
	for _, img := range s.images {
		if img.ID == id {
			return true
		}
	}
	return false
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	id, ok := imageID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	body := bodyFrom(r.Context())
	email := strings.ToLower(strings.TrimSpace(body["email"]))
	text := strings.TrimSpace(body["text"])

	switch {
	case !emailPattern.MatchString(email):
		writeError(w, http.StatusBadRequest, "Invalid email")
		return
	case len([]rune(text)) < 2:
		writeError(w, http.StatusBadRequest, "Comment too short")
		return
	case len([]rune(text)) > 500:
		writeError(w, http.StatusBadRequest, "Comment too long (max 500 characters)")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasImage(id) {
		writeError(w, http.StatusNotFound, "Image not found")
		return
	}
	s.comments[id] = append(s.comments[id], api.Comment{
		Email:     email,
		Text:      text,
		CreatedAt: s.now().UTC().Format("2006-01-02 15:04:05"),
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) toggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := imageID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	email := strings.ToLower(strings.TrimSpace(bodyFrom(r.Context())["email"]))
	if !emailPattern.MatchString(email) {
		writeError(w, http.StatusBadRequest, "Invalid email")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, img := range s.images {
		if img.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeError(w, http.StatusNotFound, "Image not found")
		return
	}
	if s.likes[id] == nil {
		s.likes[id] = make(map[string]bool)
	}
	liked := !s.likes[id][email]
	if liked {
		s.likes[id][email] = true
		s.images[idx].Likes++
	} else {
		delete(s.likes[id], email)
		if s.images[idx].Likes > 0 {
			s.images[idx].Likes--
		}
	}
	writeJSON(w, http.StatusOK, api.LikeResult{Liked: liked, Likes: s.images[idx].Likes})
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	s.mu.Lock()
	data, ok := s.assets[name]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}
