// Package service bundles the gallery API client, local favorites and
// preferences behind one entry point for the command-line tool and the
// desktop app.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fygallery/internal/api"
	"fygallery/internal/favorites"
	"fygallery/internal/gallery"
	"fygallery/internal/prefs"
	"fygallery/internal/validate"
)

// ErrImageNotFound is returned when an id is not in the server's list.
var ErrImageNotFound = errors.New("image not found")

// Remote abstracts the API client for easier testing.
type Remote interface {
	gallery.Remote
	BaseURL() string
}

// PreferenceStore is the part of the preference store the service uses.
type PreferenceStore interface {
	favorites.KeyValueStore
	Theme() string
	SetTheme(variant string) error
	Close() error
}

// Entry is a listed image with its local favorite marker.
type Entry struct {
	api.Image
	Favorite bool
}

// Service is the main entry point for business logic.
type Service struct {
	Remote    Remote
	Prefs     PreferenceStore
	Favorites *favorites.Store
	Images    *ImageService
	Logger    func(string)
}

// NewService constructs a new Service.
func NewService(remote Remote, store PreferenceStore, logger func(string)) *Service {
	return &Service{
		Remote:    remote,
		Prefs:     store,
		Favorites: favorites.NewStore(store, prefs.LoggerFunc(logger)),
		Images:    NewImageService(),
		Logger:    logger,
	}
}

func (s *Service) logMessage(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger(fmt.Sprintf(format, args...))
	}
}

// ListImages returns the filtered list with favorite markers applied by title.
func (s *Service) ListImages(ctx context.Context, search string, sort gallery.SortMode) ([]Entry, error) {
	images, err := s.Remote.ListImages(ctx, search, string(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	titles, err := s.Favorites.Titles()
	if err != nil {
		s.logMessage("Error reading favorites: %v", err)
		titles = map[string]bool{}
	}
	entries := make([]Entry, 0, len(images))
	for _, img := range images {
		entries = append(entries, Entry{Image: img, Favorite: titles[img.Title]})
	}
	return entries, nil
}

// FindImage looks id up in the unfiltered list.
func (s *Service) FindImage(ctx context.Context, id int) (api.Image, error) {
	images, err := s.Remote.ListImages(ctx, "", string(gallery.SortRecent))
	if err != nil {
		return api.Image{}, fmt.Errorf("failed to list images: %w", err)
	}
	for _, img := range images {
		if img.ID == id {
			return img, nil
		}
	}
	return api.Image{}, fmt.Errorf("%w: %d", ErrImageNotFound, id)
}

// ListComments returns the newest comments of an image.
func (s *Service) ListComments(ctx context.Context, id int) ([]api.Comment, error) {
	return s.Remote.ListComments(ctx, id)
}

// PostComment validates and posts a comment.
func (s *Service) PostComment(ctx context.Context, id int, email, text string) error {
	email, text, err := validate.Comment(email, text)
	if err != nil {
		return err
	}
	return s.Remote.PostComment(ctx, id, email, text)
}

// ToggleLike validates email and toggles its like on id.
func (s *Service) ToggleLike(ctx context.Context, id int, email string) (api.LikeResult, error) {
	if err := validate.Email(email); err != nil {
		return api.LikeResult{}, err
	}
	return s.Remote.ToggleLike(ctx, id, email)
}

// ToggleFavorite flips the local favorite marker of id.
func (s *Service) ToggleFavorite(ctx context.Context, id int) (bool, api.Image, error) {
	img, err := s.FindImage(ctx, id)
	if err != nil {
		return false, api.Image{}, err
	}
	on, err := s.Favorites.Toggle(img.ID, img.Title)
	return on, img, err
}

// ListFavorites returns the stored favorite records.
func (s *Service) ListFavorites() ([]favorites.Record, error) {
	return s.Favorites.List()
}

// Download saves the asset of id into dir and returns its path and metadata.
// Metadata is nil when the asset is not a decodable image.
func (s *Service) Download(ctx context.Context, id int, dir string) (string, *ImageInfo, error) {
	img, err := s.FindImage(ctx, id)
	if err != nil {
		return "", nil, err
	}
	data, err := s.Remote.FetchAsset(ctx, img.Filename)
	if err != nil {
		return "", nil, fmt.Errorf("failed to download %s: %w", img.Filename, err)
	}
	path := filepath.Join(dir, gallery.DownloadName(img))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", nil, fmt.Errorf("failed to save %s: %w", path, err)
	}
	info, _, err := s.Images.Decode(data)
	if err != nil {
		s.logMessage("Saved %s but could not read it as an image: %v", path, err)
		return path, nil, nil
	}
	return path, info, nil
}

// Theme returns the stored theme variant.
func (s *Service) Theme() string {
	return s.Prefs.Theme()
}

// SetTheme stores the theme variant.
func (s *Service) SetTheme(variant string) error {
	return s.Prefs.SetTheme(variant)
}

// Close releases the preference store.
func (s *Service) Close() error {
	return s.Prefs.Close()
}
