package gallery

import (
	"context"
	"errors"

	"fygallery/internal/api"
	"fygallery/internal/validate"
)

const (
	NoCommentsMessage        = "No comments yet"
	CommentPublishedMessage  = "Comment published!"
	DefaultCommentDateLayout = "02/01/2006"
)

// CommentSource reads and writes comments for an image.
type CommentSource interface {
	ListComments(ctx context.Context, imageID int) ([]api.Comment, error)
	PostComment(ctx context.Context, imageID int, email, text string) error
}

// CommentsPanel shows and posts comments for the image open in the lightbox.
type CommentsPanel struct {
	session    *Session
	source     CommentSource
	view       CommentsView
	notifier   Notifier
	loop       Loop
	escape     Escaper
	dateLayout string
	logger     LoggerFunc
}

func (c *CommentsPanel) logMessage(format string, args ...interface{}) {
	logWith(c.logger, format, args...)
}

// Reset empties the list and the form. Called on the loop when the viewer
// moves to another image.
func (c *CommentsPanel) Reset() {
	c.view.ClearComments()
	c.view.ClearInput()
}

// Load fetches up to the newest 20 comments for imageID and renders them.
// A failure is logged and leaves the list as it was.
func (c *CommentsPanel) Load(ctx context.Context, imageID int) error {
	comments, err := c.source.ListComments(ctx, imageID)
	if err != nil {
		c.logMessage("Error loading comments for %d: %v", imageID, err)
		return err
	}
	rows := c.rows(comments)
	c.loop.Do(func() {
		if len(rows) == 0 {
			c.view.ShowNoComments(NoCommentsMessage)
			return
		}
		c.view.ShowComments(rows)
	})
	return nil
}

func (c *CommentsPanel) rows(comments []api.Comment) []CommentRow {
	rows := make([]CommentRow, 0, len(comments))
	for _, cm := range comments {
		date := cm.CreatedAt
		if t, err := cm.Created(); err == nil {
			date = t.Format(c.dateLayout)
		}
		rows = append(rows, CommentRow{
			EmailMarkup: c.escape(cm.Email),
			TextMarkup:  c.escape(cm.Text),
			Date:        date,
		})
	}
	return rows
}

// Submit validates and posts a comment on the active image, then reloads
// the list. Validation failures never reach the network.
func (c *CommentsPanel) Submit(ctx context.Context, email, text string) error {
	email, text, err := validate.Comment(email, text)
	if err != nil {
		c.alert(err.Error())
		return err
	}
	_, id, ok := c.session.Active()
	if !ok {
		c.alert(GenericErrorMessage)
		return ErrNoActiveImage
	}
	if err := c.source.PostComment(ctx, id, email, text); err != nil {
		return c.reportSubmitError("comment", err)
	}
	c.loop.Do(func() {
		c.notifier.Alert(CommentPublishedMessage)
		c.view.ClearInput()
	})
	return c.Load(ctx, id)
}

func (c *CommentsPanel) alert(msg string) {
	c.loop.Do(func() { c.notifier.Alert(msg) })
}

// reportSubmitError alerts server rejections verbatim and only logs
// transport failures.
func (c *CommentsPanel) reportSubmitError(what string, err error) error {
	return reportSubmitError(c.loop, c.notifier, c.logger, what, err)
}

func reportSubmitError(loop Loop, n Notifier, logger LoggerFunc, what string, err error) error {
	var srvErr *api.ServerError
	if errors.As(err, &srvErr) {
		logWith(logger, "Server rejected %s: %s", what, srvErr.Message)
		loop.Do(func() { n.Alert(srvErr.Message) })
		return err
	}
	logWith(logger, "Error sending %s: %v", what, err)
	return err
}
