package dto

// UploadResponse is returned after a successful answer-attachment upload. The
// URL is what a file-type answer stores as its content.
type UploadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
}
