package model

import "time"

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Description  string    `json:"description"`
	Quantity     int       `json:"quantity"`
	ImageURL     string    `json:"imageUrl"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductFields carries the scalar form fields of a create or update request,
// separate from the image payload.
type ProductFields struct {
	Name        string
	Price       float64
	Description string
	Quantity    int
}

// ImageUpload is the transient in-memory image of one multipart upload. It is
// buffered fully before any store is contacted.
type ImageUpload struct {
	Data        []byte
	ContentType string
	Filename    string
}

func (u *ImageUpload) Empty() bool {
	return u == nil || len(u.Data) == 0
}
