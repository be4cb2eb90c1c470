package services

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"barcode-batcher/internal/logger"
)

// ThumbnailService scales barcode images down for the preview grid
type ThumbnailService struct {
	size   int
	logger logger.Logger

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewThumbnailService creates a thumbnail service that fits images into a size x size box
func NewThumbnailService(size int, log logger.Logger) *ThumbnailService {
	if size <= 0 {
		size = 100
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ThumbnailService{
		size:   size,
		logger: log,
		cache:  make(map[string]image.Image),
	}
}

// Size returns the edge of the thumbnail box
func (ts *ThumbnailService) Size() int {
	return ts.size
}

// Thumbnail decodes data and returns it aspect-fitted into the thumbnail box.
// Results are cached by key; an empty key disables caching.
func (ts *ThumbnailService) Thumbnail(key string, data []byte) (image.Image, error) {
	if key != "" {
		ts.mu.Lock()
		img, ok := ts.cache[key]
		ts.mu.Unlock()
		if ok {
			return img, nil
		}
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode thumbnail source: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("decode thumbnail source: empty image")
	}

	w, h := FitSize(mat.Cols(), mat.Rows(), ts.size)
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(w, h), 0, 0, gocv.InterpolationArea)

	img, err := resized.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert thumbnail: %w", err)
	}

	if key != "" {
		ts.mu.Lock()
		ts.cache[key] = img
		ts.mu.Unlock()
	}

	ts.logger.Debug("ThumbnailService", "thumbnail created", map[string]interface{}{
		"source": fmt.Sprintf("%dx%d", mat.Cols(), mat.Rows()),
		"result": fmt.Sprintf("%dx%d", w, h),
	})
	return img, nil
}

// Clear drops every cached thumbnail
func (ts *ThumbnailService) Clear() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	clear(ts.cache)
}

// FitSize scales w x h to fit inside a box x box square, keeping the aspect ratio.
// Images already inside the box are returned unchanged.
func FitSize(w, h, box int) (int, int) {
	if w <= 0 || h <= 0 || box <= 0 {
		return 0, 0
	}
	if w <= box && h <= box {
		return w, h
	}
	if w >= h {
		return box, max(1, h*box/w)
	}
	return max(1, w*box/h), box
}
