package videos

import (
	"testing"
	"time"

	"github.com/clipstream/backend/internal/models"
)

func TestFeedCacheGetPut(t *testing.T) {
	cache := NewFeedCache(time.Minute)

	if _, ok := cache.Get("user-1"); ok {
		t.Fatal("expected empty cache miss")
	}

	feed := []models.Video{{ID: "v1", OwnerID: "user-1"}}
	cache.Put("user-1", feed)

	got, ok := cache.Get("user-1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].ID != "v1" {
		t.Fatalf("unexpected cached feed: %+v", got)
	}
}

func TestFeedCacheExpiry(t *testing.T) {
	cache := NewFeedCache(time.Millisecond)
	cache.Put("", []models.Video{{ID: "v1"}})

	time.Sleep(5 * time.Millisecond)

	if _, ok := cache.Get(""); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestFeedCacheInvalidate(t *testing.T) {
	cache := NewFeedCache(time.Minute)
	cache.Put("user-1", []models.Video{{ID: "v1", OwnerID: "user-1"}})
	cache.Put("user-2", []models.Video{{ID: "v2", OwnerID: "user-2"}})
	cache.Put("", []models.Video{{ID: "v1"}, {ID: "v2"}})

	cache.Invalidate("user-1")

	if _, ok := cache.Get("user-1"); ok {
		t.Fatal("expected owner feed to be invalidated")
	}
	if _, ok := cache.Get(""); ok {
		t.Fatal("expected unfiltered feed to be invalidated")
	}
	if _, ok := cache.Get("user-2"); !ok {
		t.Fatal("expected other owner's feed to survive")
	}
}

func TestApplyDefaults(t *testing.T) {
	got := ApplyDefaults(models.Transformation{})
	want := models.Transformation{
		Height:  models.DefaultVideoHeight,
		Width:   models.DefaultVideoWidth,
		Quality: models.DefaultVideoQuality,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	custom := models.Transformation{Height: 720, Width: 1280, Quality: 80}
	if got := ApplyDefaults(custom); got != custom {
		t.Fatalf("expected custom transformation untouched, got %+v", got)
	}

	clamped := ApplyDefaults(models.Transformation{Height: 720, Width: 1280, Quality: 250})
	if clamped.Quality != models.DefaultVideoQuality {
		t.Fatalf("expected out-of-range quality reset, got %d", clamped.Quality)
	}
}
