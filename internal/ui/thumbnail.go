package ui

import (
	"context"
	"sync"

	"fygallery/internal/service"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// AssetSource downloads uploaded files.
type AssetSource interface {
	FetchAsset(ctx context.Context, filename string) ([]byte, error)
}

// ThumbnailManager downloads assets and caches their scaled-down bitmaps.
// The cache lives as long as the window; the list itself is never cached.
type ThumbnailManager struct {
	cache      map[string]fyne.Resource
	pending    map[string][]func(fyne.Resource)
	cacheMutex sync.Mutex

	assets AssetSource
	images *service.ImageService
	do     func(func())
	logger func(string)
}

// NewThumbnailManager creates a manager. do runs completions on the UI thread.
func NewThumbnailManager(assets AssetSource, images *service.ImageService, do func(func()), logger func(string)) *ThumbnailManager {
	return &ThumbnailManager{
		cache:   make(map[string]fyne.Resource),
		pending: make(map[string][]func(fyne.Resource)),
		assets:  assets,
		images:  images,
		do:      do,
		logger:  logger,
	}
}

// GetThumbnail returns the cached thumbnail for filename, or a placeholder
// while it is fetched in the background. onComplete receives the real
// thumbnail on the UI thread.
func (tm *ThumbnailManager) GetThumbnail(filename string, onComplete func(fyne.Resource)) fyne.Resource {
	tm.cacheMutex.Lock()
	if res, ok := tm.cache[filename]; ok {
		tm.cacheMutex.Unlock()
		return res
	}
	waiters, inFlight := tm.pending[filename]
	tm.pending[filename] = append(waiters, onComplete)
	tm.cacheMutex.Unlock()

	if !inFlight {
		go tm.load(filename)
	}
	return theme.FileImageIcon()
}

func (tm *ThumbnailManager) load(filename string) {
	res, err := tm.build(filename)

	tm.cacheMutex.Lock()
	waiters := tm.pending[filename]
	delete(tm.pending, filename)
	if err == nil {
		tm.cache[filename] = res
	}
	tm.cacheMutex.Unlock()

	if err != nil {
		if tm.logger != nil {
			tm.logger("Thumbnail error for " + filename + ": " + err.Error())
		}
		return
	}
	tm.do(func() {
		for _, cb := range waiters {
			if cb != nil {
				cb(res)
			}
		}
	})
}

func (tm *ThumbnailManager) build(filename string) (fyne.Resource, error) {
	data, err := tm.assets.FetchAsset(context.Background(), filename)
	if err != nil {
		return nil, err
	}
	thumb, err := tm.images.ThumbnailPNG(data, service.ThumbnailWidth, service.ThumbnailHeight)
	if err != nil {
		return nil, err
	}
	return fyne.NewStaticResource("thumb-"+filename, thumb), nil
}

// Cached reports whether filename has a thumbnail ready.
func (tm *ThumbnailManager) Cached(filename string) bool {
	tm.cacheMutex.Lock()
	defer tm.cacheMutex.Unlock()
	_, ok := tm.cache[filename]
	return ok
}
