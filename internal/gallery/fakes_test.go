package gallery

import (
	"sync"
	"testing"

	"fygallery/internal/api"
	"fygallery/internal/api/apitest"
	"fygallery/internal/favorites"
	"fygallery/internal/prefs"

	"github.com/stretchr/testify/require"
)

// recorder implements every view interface and records what it was asked to show.
type recorder struct {
	mu sync.Mutex

	cells       []Cell
	empty       string
	renders     int
	favorite    map[string]bool
	activeSort  SortMode
	viewer      Viewer
	viewerShown bool
	zoom        float64
	fullscreen  bool
	hasPrev     bool
	hasNext     bool
	position    int
	total       int
	comments    []CommentRow
	noComments  string
	inputClears int
	gateShown   bool
	gateFocused bool
	emailClears int
	alerts      []string
}

func newRecorder() *recorder {
	return &recorder{favorite: make(map[string]bool)}
}

func (r *recorder) views() Views {
	return Views{Gallery: r, Sort: r, Lightbox: r, Comments: r, LikeGate: r, Notifier: r}
}

func (r *recorder) ShowCells(cells []Cell) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cells = cells
	r.empty = ""
	r.renders++
	r.favorite = make(map[string]bool)
}

func (r *recorder) ShowEmpty(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cells = nil
	r.empty = message
	r.renders++
}

func (r *recorder) SetFavorite(key string, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.favorite[key] = active
}

func (r *recorder) SetActiveSort(mode SortMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeSort = mode
}

func (r *recorder) ShowViewer(v Viewer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewer = v
	r.viewerShown = true
	r.position, r.total = v.Position, v.Total
}

func (r *recorder) SetPosition(position, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.position, r.total = position, total
}

func (r *recorder) SetZoom(scale float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.zoom = scale
}

func (r *recorder) SetFullscreen(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fullscreen = on
}

func (r *recorder) SetNavigation(hasPrevious, hasNext bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hasPrev, r.hasNext = hasPrevious, hasNext
}

func (r *recorder) HideViewer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewerShown = false
}

func (r *recorder) ShowComments(rows []CommentRow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = rows
	r.noComments = ""
}

func (r *recorder) ShowNoComments(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = nil
	r.noComments = message
}

func (r *recorder) ClearComments() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = nil
	r.noComments = ""
}

func (r *recorder) ClearInput() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputClears++
}

func (r *recorder) ShowGate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateShown = true
}

func (r *recorder) HideGate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateShown = false
	r.gateFocused = false
}

func (r *recorder) ClearEmail() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emailClears++
}

func (r *recorder) FocusEmail() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateFocused = true
}

func (r *recorder) Alert(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, message)
}

func (r *recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

func (r *recorder) Cells() []Cell {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Cell(nil), r.cells...)
}

func (r *recorder) Renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}

func (r *recorder) Favorite(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.favorite[key]
}

type fixture struct {
	srv  *apitest.Server
	ctl  *Controller
	view *recorder
	favs *favorites.Store
}

func sampleImages() []api.Image {
	return []api.Image{
		{ID: 1, Title: "Sunset", Description: "Over the bay", Filename: "a.jpg", Likes: 3, UploadedAt: "2024-03-01 10:00:00"},
		{ID: 2, Title: "Forest", Description: "Green canopy", Filename: "b.jpg", Likes: 9, UploadedAt: "2024-02-01 10:00:00"},
		{ID: 7, Title: "Harbor", Description: "Boats at rest", Filename: "c.jpg", Likes: 0, UploadedAt: "2024-01-01 10:00:00"},
	}
}

// newFixture builds a controller over a fake server with inline background
// work, so every call returns after its results are applied.
func newFixture(t *testing.T, opts Options, images ...api.Image) *fixture {
	t.Helper()
	srv := apitest.NewServer(t, images...)
	kv, err := prefs.Open(t.TempDir(), func(msg string) { t.Log(msg) })
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	favs := favorites.NewStore(kv, func(msg string) { t.Log(msg) })
	view := newRecorder()
	if opts.Runner == nil {
		opts.Runner = InlineRunner
	}
	if opts.Logger == nil {
		opts.Logger = func(msg string) { t.Log(msg) }
	}
	ctl := New(srv.NewClient(t), favs, view.views(), opts)
	return &fixture{srv: srv, ctl: ctl, view: view, favs: favs}
}
