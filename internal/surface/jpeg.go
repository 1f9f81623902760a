package surface

import (
	"image/jpeg"
	"io"
)

// DefaultJPEGQuality is used for screenshots.
const DefaultJPEGQuality = 85

// WriteJPEG encodes the presented frame. It returns ErrNoFrame before the
// first Present.
func (f *Framebuffer) WriteJPEG(w io.Writer, quality int) error {
	img, err := f.Snapshot()
	if err != nil {
		return err
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}
