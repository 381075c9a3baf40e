package gallery

import (
	"errors"
	"net/url"
)

const (
	ShareMethodClipboard = "clipboard"
	ShareMethodLink      = "link"

	// ShareCopiedMessage confirms the clipboard share.
	ShareCopiedMessage = "Image link copied to clipboard!"
	// DefaultShareLinkBase is the messaging intent link used as last resort.
	DefaultShareLinkBase = "https://wa.me/"
)

// ErrShareUnavailable is returned when no share method could be used.
var ErrShareUnavailable = errors.New("no share method available")

// ShareItem is what gets shared for an image.
type ShareItem struct {
	Title string
	Text  string
	URL   string
}

// ShareStrategy is one way of sharing.
type ShareStrategy interface {
	Name() string
	Available() bool
	Share(item ShareItem) error
}

// ShareChain tries strategies in order until one succeeds.
type ShareChain struct {
	strategies []ShareStrategy
	logger     LoggerFunc
}

// NewShareChain builds a chain over strategies, skipping nil entries.
func NewShareChain(logger LoggerFunc, strategies ...ShareStrategy) *ShareChain {
	c := &ShareChain{logger: logger}
	for _, s := range strategies {
		if s != nil {
			c.strategies = append(c.strategies, s)
		}
	}
	return c
}

// Share returns the name of the strategy that handled item.
func (c *ShareChain) Share(item ShareItem) (string, error) {
	if c == nil {
		return "", ErrShareUnavailable
	}
	for _, s := range c.strategies {
		if !s.Available() {
			continue
		}
		if err := s.Share(item); err != nil {
			logWith(c.logger, "Share via %s failed: %v", s.Name(), err)
			continue
		}
		return s.Name(), nil
	}
	return "", ErrShareUnavailable
}

// ClipboardShare copies the share text and link to the clipboard.
type ClipboardShare struct {
	SetContent func(text string)
}

func (c ClipboardShare) Name() string    { return ShareMethodClipboard }
func (c ClipboardShare) Available() bool { return c.SetContent != nil }

func (c ClipboardShare) Share(item ShareItem) error {
	c.SetContent(item.Text + " " + item.URL)
	return nil
}

// LinkShare opens a messaging intent link carrying the share text.
type LinkShare struct {
	Base string
	Open func(u *url.URL) error
}

func (l LinkShare) Name() string    { return ShareMethodLink }
func (l LinkShare) Available() bool { return l.Open != nil }

// URL builds the intent link for item.
func (l LinkShare) URL(item ShareItem) (*url.URL, error) {
	base := l.Base
	if base == "" {
		base = DefaultShareLinkBase
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("text", item.Text+" "+item.URL)
	u.RawQuery = q.Encode()
	return u, nil
}

func (l LinkShare) Share(item ShareItem) error {
	u, err := l.URL(item)
	if err != nil {
		return err
	}
	return l.Open(u)
}
