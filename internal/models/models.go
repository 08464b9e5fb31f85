package models

import "time"

// User represents an account within the ClipStream platform. Password always
// holds the bcrypt hash, never the plaintext credential.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Transformation describes how the player should render a video asset.
type Transformation struct {
	Height  int `json:"height"`
	Width   int `json:"width"`
	Quality int `json:"quality"`
}

// Default portrait dimensions applied when an upload omits them.
const (
	DefaultVideoHeight  = 1920
	DefaultVideoWidth   = 1080
	DefaultVideoQuality = 100
)

// Video is a short-form clip uploaded by a user. Videos are removed together
// with their owning account.
type Video struct {
	ID             string         `json:"id"`
	OwnerID        string         `json:"userId"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	VideoURL       string         `json:"videoUrl"`
	ThumbnailURL   string         `json:"thumbnailUrl"`
	Controls       bool           `json:"controls"`
	Transformation Transformation `json:"transformation"`
	CreatedAt      time.Time      `json:"createdAt"`
}
