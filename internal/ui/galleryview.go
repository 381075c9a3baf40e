package ui

import (
	"fmt"

	"fygallery/internal/gallery"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	favoriteOn  = "★"
	favoriteOff = "☆"
)

// galleryCard is the widget group for one cell.
type galleryCard struct {
	key      string
	image    *cardImage
	text     *widget.RichText
	likes    *widget.Label
	likeBtn  *widget.Button
	favBtn   *widget.Button
	object   fyne.CanvasObject
	favorite bool
}

func (c *galleryCard) setFavorite(on bool) {
	c.favorite = on
	if on {
		c.favBtn.SetText(favoriteOn)
		c.favBtn.Importance = widget.HighImportance
	} else {
		c.favBtn.SetText(favoriteOff)
		c.favBtn.Importance = widget.MediumImportance
	}
	c.favBtn.Refresh()
}

// gridView implements gallery.GalleryView with a wrapping grid of cards.
// Every button routes through dispatch by cell key.
type gridView struct {
	dispatch func(key string, action gallery.Action)
	thumbs   *ThumbnailManager

	grid    *fyne.Container
	empty   *widget.Label
	content fyne.CanvasObject
	cards   map[string]*galleryCard
	order   []string
}

var _ gallery.GalleryView = (*gridView)(nil)

func newGridView(dispatch func(key string, action gallery.Action), thumbs *ThumbnailManager) *gridView {
	g := &gridView{
		dispatch: dispatch,
		thumbs:   thumbs,
		grid:     container.NewGridWrap(fyne.NewSize(260, 320)),
		empty:    widget.NewLabel(""),
		cards:    make(map[string]*galleryCard),
	}
	g.empty.Alignment = fyne.TextAlignCenter
	g.empty.Hide()
	g.content = container.NewStack(container.NewVScroll(g.grid), container.NewCenter(g.empty))
	return g
}

func cardMarkdown(c gallery.Cell) string {
	return fmt.Sprintf("**%s**\n\n%s", c.TitleMarkup, c.DescriptionMarkup)
}

func (g *gridView) newCard(c gallery.Cell) *galleryCard {
	key := c.Key
	card := &galleryCard{key: key}
	var res fyne.Resource
	if g.thumbs != nil {
		res = g.thumbs.GetThumbnail(c.Filename, func(r fyne.Resource) {
			if current, ok := g.cards[key]; ok && current == card {
				card.image.SetResource(r)
			}
		})
	}
	card.image = newCardImage(key, res, g.dispatch)
	card.image.SetMinSize(fyne.NewSize(240, 180))
	card.text = widget.NewRichTextFromMarkdown(cardMarkdown(c))
	card.text.Wrapping = fyne.TextWrapWord
	card.likes = widget.NewLabel("♥ " + c.Likes)
	card.likeBtn = widget.NewButton("Like", func() { g.dispatch(key, gallery.ActionLike) })
	card.favBtn = widget.NewButton(favoriteOff, func() { g.dispatch(key, gallery.ActionFavorite) })
	card.object = container.NewBorder(
		card.image,
		container.NewHBox(card.likes, card.likeBtn, card.favBtn),
		nil, nil,
		card.text,
	)
	return card
}

func (g *gridView) ShowCells(cells []gallery.Cell) {
	g.cards = make(map[string]*galleryCard, len(cells))
	g.order = g.order[:0]
	objects := make([]fyne.CanvasObject, 0, len(cells))
	for _, c := range cells {
		card := g.newCard(c)
		g.cards[c.Key] = card
		g.order = append(g.order, c.Key)
		objects = append(objects, card.object)
	}
	g.grid.Objects = objects
	g.grid.Refresh()
	g.empty.Hide()
}

func (g *gridView) ShowEmpty(message string) {
	g.cards = map[string]*galleryCard{}
	g.order = g.order[:0]
	g.grid.Objects = nil
	g.grid.Refresh()
	g.empty.SetText(message)
	g.empty.Show()
}

func (g *gridView) SetFavorite(key string, active bool) {
	if card, ok := g.cards[key]; ok {
		card.setFavorite(active)
	}
}

// sortBar implements gallery.SortView with one button per mode.
type sortBar struct {
	buttons map[gallery.SortMode]*widget.Button
	box     *fyne.Container
}

var _ gallery.SortView = (*sortBar)(nil)

var sortLabels = map[gallery.SortMode]string{
	gallery.SortRecent: "Recent",
	gallery.SortLikes:  "Most liked",
	gallery.SortOldest: "Oldest",
}

func newSortBar(onSelect func(gallery.SortMode)) *sortBar {
	s := &sortBar{buttons: make(map[gallery.SortMode]*widget.Button), box: container.NewHBox()}
	for _, mode := range gallery.SortModes() {
		mode := mode
		b := widget.NewButton(sortLabels[mode], func() { onSelect(mode) })
		s.buttons[mode] = b
		s.box.Add(b)
	}
	return s
}

func (s *sortBar) SetActiveSort(mode gallery.SortMode) {
	for m, b := range s.buttons {
		if m == mode {
			b.Importance = widget.HighImportance
		} else {
			b.Importance = widget.MediumImportance
		}
		b.Refresh()
	}
}
