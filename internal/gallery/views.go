package gallery

import (
	"html"
	"strings"
)

// Cell is one rendered gallery entry. The *Markup fields have already been
// passed through the controller's Escaper; Title is the raw text used for
// favorite matching.
type Cell struct {
	Key               string
	ImageID           int
	Title             string
	TitleMarkup       string
	DescriptionMarkup string
	FilenameMarkup    string
	Filename          string
	Source            string
	Likes             string
}

// Viewer holds the fields shown by the lightbox for the active image.
type Viewer struct {
	ImageID     int
	Filename    string
	Source      string
	Title       string
	Description string
	Likes       string
	Position    int
	Total       int
}

// CommentRow is one rendered comment.
type CommentRow struct {
	EmailMarkup string
	TextMarkup  string
	Date        string
}

// GalleryView renders the image grid.
type GalleryView interface {
	ShowCells(cells []Cell)
	ShowEmpty(message string)
	SetFavorite(key string, active bool)
}

// SortView highlights the selected sort control.
type SortView interface {
	SetActiveSort(mode SortMode)
}

// LightboxView is the modal image viewer.
type LightboxView interface {
	ShowViewer(v Viewer)
	SetZoom(scale float64)
	SetFullscreen(on bool)
	SetNavigation(hasPrevious, hasNext bool)
	// SetPosition updates the zero-based index of the shown image.
	SetPosition(position, total int)
	HideViewer()
}

// CommentsView is the comment list and input form inside the lightbox.
type CommentsView interface {
	ShowComments(rows []CommentRow)
	ShowNoComments(message string)
	ClearComments()
	ClearInput()
}

// LikeGateView is the email prompt shown before a like.
type LikeGateView interface {
	ShowGate()
	HideGate()
	ClearEmail()
	FocusEmail()
}

// Notifier shows blocking messages to the user.
type Notifier interface {
	Alert(message string)
}

// Views groups every surface the controller drives.
type Views struct {
	Gallery  GalleryView
	Sort     SortView
	Lightbox LightboxView
	Comments CommentsView
	LikeGate LikeGateView
	Notifier Notifier
}

// Escaper makes untrusted server text safe for the view's markup.
type Escaper func(s string) string

// HTMLEscaper escapes text for HTML.
func HTMLEscaper(s string) string { return html.EscapeString(s) }

var markdownReplacer = func() *strings.Replacer {
	var pairs []string
	for _, r := range "\\`*_{}[]()#+-.!|<>&~=" {
		pairs = append(pairs, string(r), "\\"+string(r))
	}
	return strings.NewReplacer(pairs...)
}()

// MarkdownEscaper backslash-escapes Markdown punctuation and folds line
// breaks and indentation into single spaces, so the result always stays
// one inline run of text.
func MarkdownEscaper(s string) string {
	return markdownReplacer.Replace(strings.Join(strings.Fields(s), " "))
}
