package videos

import "github.com/clipstream/backend/internal/models"

// ApplyDefaults fills in transformation settings an upload may omit, falling
// back to the platform's portrait dimensions at full quality.
func ApplyDefaults(t models.Transformation) models.Transformation {
	if t.Height <= 0 {
		t.Height = models.DefaultVideoHeight
	}
	if t.Width <= 0 {
		t.Width = models.DefaultVideoWidth
	}
	if t.Quality <= 0 || t.Quality > 100 {
		t.Quality = models.DefaultVideoQuality
	}
	return t
}
