package models

// MediaAsset describes a file successfully transferred to the media host.
type MediaAsset struct {
	URL string `json:"url"` // Public URL of the uploaded asset
	Key string `json:"key"` // Storage key under which the asset lives
}
