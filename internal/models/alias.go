package models

import (
	"time"
)

type Alias struct {
	ID          int64     `json:"id"`
	Alias       string    `json:"alias"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
}
