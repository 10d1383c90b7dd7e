package model

import "time"

// Channel represents YouTube channel metadata from the Data API
type Channel struct {
	ID              string `json:"channel_id" db:"channel_id"`
	Title           string `json:"channel_title" db:"channel_title"`
	SubscriberCount int64  `json:"channel_subs" db:"channel_subs"`
	Country         string `json:"country" db:"country"`
	UploadsPlaylist string `json:"uploads_playlist" db:"uploads_playlist"`
}

// Video represents YouTube video metadata from the Data API
type Video struct {
	ID          string    `json:"video_id" db:"video_id"`
	ChannelID   string    `json:"channel_id" db:"channel_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	PublishedAt time.Time `json:"published_at" db:"published_at"`
	ViewCount   int64     `json:"view_count" db:"view_count"`
	LikeCount   int64     `json:"like_count" db:"like_count"`
	Tags        []string  `json:"tags" db:"tags"`
	DefaultLang string    `json:"default_lang" db:"default_lang"`
	DurationSec float64   `json:"duration_sec" db:"duration_sec"`
}
