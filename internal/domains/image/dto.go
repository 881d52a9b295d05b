package image

import "time"

// URLs are presigned links to one stored image.
type URLs struct {
	FileID      string `json:"fileId"`
	URL         string `json:"url"`
	DownloadURL string `json:"downloadUrl"`
}

// Info is the stored metadata of one image.
type Info struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Signature    string    `json:"signature,omitempty"`
	MimeType     string    `json:"mimeType"`
	SizeOriginal int64     `json:"sizeOriginal"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
