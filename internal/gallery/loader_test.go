package gallery

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fygallery/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReloadRendersMatchingImages(t *testing.T) {
	f := newFixture(t, Options{}, api.Image{ID: 1, Title: "Sunset", Filename: "a.jpg", Likes: 3, UploadedAt: "2024-01-01 10:00:00"})

	require.NoError(t, f.ctl.Loader.Reload(context.Background(), "sunset", SortRecent))

	reqs := f.srv.RequestsTo("/api/images")
	require.Len(t, reqs, 1)
	assert.Equal(t, "search=sunset&sort=recent", reqs[0].RawQuery)

	cells := f.view.Cells()
	require.Len(t, cells, 1)
	assert.Equal(t, "cell-1", cells[0].Key)
	assert.Equal(t, "Sunset", cells[0].Title)
	assert.Equal(t, "3", cells[0].Likes)
	assert.Equal(t, f.srv.URL+"/uploads/a.jpg", cells[0].Source)
	assert.Equal(t, []string{"cell-1"}, f.ctl.Loader.Keys())
	assert.Empty(t, f.view.Alerts())
}

func TestStartUsesDefaultFilters(t *testing.T) {
	f := newFixture(t, Options{}, sampleImages()...)

	require.NoError(t, f.ctl.Start(context.Background()))

	reqs := f.srv.RequestsTo("/api/images")
	require.Len(t, reqs, 1)
	assert.Equal(t, "search=&sort=recent", reqs[0].RawQuery)
	assert.Equal(t, SortRecent, f.view.activeSort)
	assert.Len(t, f.view.Cells(), 3)
}

func TestEmptyListShowsMessage(t *testing.T) {
	f := newFixture(t, Options{}, sampleImages()...)

	require.NoError(t, f.ctl.Loader.Reload(context.Background(), "no such thing", SortRecent))

	assert.Empty(t, f.view.Cells())
	assert.Equal(t, NoImagesMessage, f.view.empty)
	assert.Equal(t, 0, f.ctl.Session.Len())
}

func TestReloadFailureLeavesGridUnchanged(t *testing.T) {
	f := newFixture(t, Options{}, sampleImages()...)
	require.NoError(t, f.ctl.Start(context.Background()))
	before := f.view.Cells()

	f.srv.FailLists = true
	err := f.ctl.Loader.Reload(context.Background(), "forest", SortLikes)

	var netErr *api.NetworkError
	assert.True(t, errors.As(err, &netErr), "got %v", err)
	assert.Equal(t, before, f.view.Cells())
	assert.Equal(t, 1, f.view.Renders())
	assert.Empty(t, f.view.Alerts(), "list failures are logged only")
}

func TestCellMarkupIsEscaped(t *testing.T) {
	f := newFixture(t, Options{}, api.Image{
		ID: 4, Title: "<b>Tom & Jerry</b>", Description: `"quoted" <script>`, Filename: "x<y>.jpg",
	})
	require.NoError(t, f.ctl.Start(context.Background()))

	cells := f.view.Cells()
	require.Len(t, cells, 1)
	assert.Equal(t, "<b>Tom & Jerry</b>", cells[0].Title)
	assert.Equal(t, "&lt;b&gt;Tom &amp; Jerry&lt;/b&gt;", cells[0].TitleMarkup)
	assert.Equal(t, "&#34;quoted&#34; &lt;script&gt;", cells[0].DescriptionMarkup)
	assert.Equal(t, "x&lt;y&gt;.jpg", cells[0].FilenameMarkup)
}

func TestCustomEscaper(t *testing.T) {
	f := newFixture(t, Options{Escaper: MarkdownEscaper}, api.Image{ID: 4, Title: "*bold* [link](x)"})
	require.NoError(t, f.ctl.Start(context.Background()))

	assert.Equal(t, `\*bold\* \[link\]\(x\)`, f.view.Cells()[0].TitleMarkup)
}

func TestDispatchUnknownCell(t *testing.T) {
	f := newFixture(t, Options{}, sampleImages()...)
	require.NoError(t, f.ctl.Start(context.Background()))

	err := f.ctl.Loader.Dispatch("cell-99", ActionOpen)
	assert.ErrorIs(t, err, ErrUnknownCell)
	err = f.ctl.Loader.Dispatch("cell-1", Action(42))
	assert.ErrorIs(t, err, ErrUnknownCell)
}

func TestFavoriteToggleSurvivesReload(t *testing.T) {
	f := newFixture(t, Options{}, sampleImages()...)
	ctx := context.Background()
	require.NoError(t, f.ctl.Start(ctx))

	require.NoError(t, f.ctl.Loader.Dispatch("cell-2", ActionFavorite))
	assert.True(t, f.view.Favorite("cell-2"))

	require.NoError(t, f.ctl.Loader.Refresh(ctx))
	assert.True(t, f.view.Favorite("cell-2"), "favorite is marked again after render")
	assert.False(t, f.view.Favorite("cell-1"))

	require.NoError(t, f.ctl.Loader.Dispatch("cell-2", ActionFavorite))
	assert.False(t, f.view.Favorite("cell-2"))
	require.NoError(t, f.ctl.Loader.Refresh(ctx))
	assert.False(t, f.view.Favorite("cell-2"))

	assert.Empty(t, f.srv.RequestsTo("/api/like"), "favorites never reach the server")
}

func TestFavoritesMatchByTitle(t *testing.T) {
	f := newFixture(t, Options{},
		api.Image{ID: 1, Title: "Beach", UploadedAt: "2024-01-02"},
		api.Image{ID: 2, Title: "Beach", UploadedAt: "2024-01-01"},
	)
	ctx := context.Background()
	require.NoError(t, f.ctl.Start(ctx))
	require.NoError(t, f.ctl.Loader.Dispatch("cell-1", ActionFavorite))

	require.NoError(t, f.ctl.Loader.Refresh(ctx))
	assert.True(t, f.view.Favorite("cell-1"))
	assert.True(t, f.view.Favorite("cell-2"), "same title is marked too")
}

// overlappingReloads issues a slow "Sun" reload and a fast "Forest" reload
// and lets the slow response arrive last.
func overlappingReloads(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	release := make(chan struct{})
	f.srv.ListDelay = func(q string) {
		if strings.Contains(q, "search=Sun") {
			<-release
		}
	}
	done := make(chan error, 1)
	go func() { done <- f.ctl.Loader.Reload(ctx, "Sun", SortRecent) }()
	require.Eventually(t, func() bool {
		return len(f.srv.RequestsTo("/api/images")) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, f.ctl.Loader.Reload(ctx, "Forest", SortRecent))
	close(release)
	require.NoError(t, <-done)
}

func TestOverlappingReloadsLastArrivalWins(t *testing.T) {
	f := newFixture(t, Options{}, sampleImages()...)
	overlappingReloads(t, f)

	cells := f.view.Cells()
	require.Len(t, cells, 1)
	assert.Equal(t, 1, cells[0].ImageID, "the late response overwrites the newer one")
	assert.Equal(t, 2, f.view.Renders())
}

func TestOverlappingReloadsWithSequencing(t *testing.T) {
	f := newFixture(t, Options{Sequencing: true}, sampleImages()...)
	overlappingReloads(t, f)

	cells := f.view.Cells()
	require.Len(t, cells, 1)
	assert.Equal(t, 2, cells[0].ImageID, "stale response is dropped")
	assert.Equal(t, 1, f.view.Renders())
}
