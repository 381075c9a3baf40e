package gallery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cellLikes(f *fixture, id int) string {
	for _, c := range f.view.Cells() {
		if c.ImageID == id {
			return c.Likes
		}
	}
	return ""
}

func TestLikeFlow(t *testing.T) {
	f := startedFixture(t, Options{}, sampleImages()...)
	ctx := context.Background()
	require.Equal(t, "0", cellLikes(f, 7))

	require.NoError(t, f.ctl.Loader.Dispatch("cell-7", ActionLike))
	assert.True(t, f.view.gateShown)
	assert.True(t, f.view.gateFocused)
	target, ok := f.ctl.LikeGate.Target()
	require.True(t, ok)
	assert.Equal(t, 7, target)

	res, err := f.ctl.LikeGate.Submit(ctx, " fresh@example.com ")
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, []string{LikeSentMessage}, f.view.Alerts())
	assert.False(t, f.view.gateShown)
	assert.False(t, f.ctl.LikeGate.Visible())
	assert.Equal(t, "1", cellLikes(f, 7), "gallery reloads with the new count")

	require.NoError(t, f.ctl.Loader.Dispatch("cell-7", ActionLike))
	res, err = f.ctl.LikeGate.Submit(ctx, "FRESH@example.com")
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, LikeRemovedMessage, f.view.Alerts()[1])
	assert.Equal(t, "0", cellLikes(f, 7))
}

func TestLikeEmailValidation(t *testing.T) {
	f := startedFixture(t, Options{}, sampleImages()...)
	require.NoError(t, f.ctl.LikeGate.Open(7))

	_, err := f.ctl.LikeGate.Submit(context.Background(), "   ")
	require.Error(t, err)
	_, err = f.ctl.LikeGate.Submit(context.Background(), "user@nowhere")
	require.Error(t, err)

	assert.Equal(t, []string{"Please enter your email", "Invalid email. Use: you@domain.com"}, f.view.Alerts())
	assert.Empty(t, f.srv.RequestsTo("/api/like"))
	assert.True(t, f.ctl.LikeGate.Visible(), "gate stays open for another try")
}

func TestLikeWithoutTarget(t *testing.T) {
	f := startedFixture(t, Options{}, sampleImages()...)

	_, err := f.ctl.LikeGate.Submit(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, ErrNoLikeTarget)
	assert.Equal(t, []string{GenericErrorMessage}, f.view.Alerts())

	require.NoError(t, f.ctl.LikeGate.Open(7))
	f.ctl.LikeGate.Close()
	_, err = f.ctl.LikeGate.Submit(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, ErrNoLikeTarget)
	assert.Empty(t, f.srv.RequestsTo("/api/like"))
}

func TestLikeRefreshUsesCurrentFilters(t *testing.T) {
	f := startedFixture(t, Options{}, sampleImages()...)
	f.ctl.Filter.SortSelected(SortLikes)

	require.NoError(t, f.ctl.LikeGate.Open(1))
	_, err := f.ctl.LikeGate.Submit(context.Background(), "user@example.com")
	require.NoError(t, err)

	reqs := f.srv.RequestsTo("/api/images")
	assert.Equal(t, "search=&sort=likes", reqs[len(reqs)-1].RawQuery)
}

func TestLikeServerRejectionKeepsGateOpen(t *testing.T) {
	f := startedFixture(t, Options{}, sampleImages()...)
	require.NoError(t, f.ctl.LikeGate.Open(99))

	_, err := f.ctl.LikeGate.Submit(context.Background(), "user@example.com")
	require.Error(t, err)
	assert.Equal(t, []string{"Image not found"}, f.view.Alerts())
	assert.True(t, f.ctl.LikeGate.Visible())
}
