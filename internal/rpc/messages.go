package rpc

type Empty struct{}

type RegisterRequest struct {
	Username string `json:"username"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

type GetSaltRequest struct {
	Username string `json:"username"`
}

type GetSaltResponse struct {
	Salt []byte `json:"salt"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Verifier []byte `json:"verifier"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPair is returned by Login and RefreshToken.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
}

type PingResponse struct {
	Status string `json:"status"`
}

type WhoAmIResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Entry is a journal row as the backend stores it. Timestamps are
// RFC 3339 strings with millisecond precision.
type Entry struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Date         string `json:"date"`
	Storyworthy  string `json:"storyworthy"`
	Thankful     string `json:"thankful"`
	PhotoURL     string `json:"photo_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	CreatedAt    string `json:"created_at"`
	ModifiedAt   string `json:"modified_at"`
	// UpdatedAt is the server write time.
	UpdatedAt string `json:"updated_at,omitempty"`
}

// QueryEntriesRequest selects the caller's rows; UpdatedAfter, when set,
// keeps only rows the server wrote strictly after it.
type QueryEntriesRequest struct {
	UserID       string `json:"user_id"`
	UpdatedAfter string `json:"updated_after,omitempty"`
}

// QueryEntriesResponse carries the rows and the watermark to send as
// UpdatedAfter next time.
type QueryEntriesResponse struct {
	Entries   []Entry `json:"entries"`
	Watermark string  `json:"watermark,omitempty"`
}

type UpsertEntryRequest struct {
	UserID       string `json:"user_id"`
	Date         string `json:"date"`
	Storyworthy  string `json:"storyworthy"`
	Thankful     string `json:"thankful"`
	PhotoURL     string `json:"photo_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	CreatedAt    string `json:"created_at"`
	ModifiedAt   string `json:"modified_at"`
}

type UpsertEntryResponse struct {
	ID         string `json:"id"`
	ModifiedAt string `json:"modified_at"`
}

type DeleteEntryRequest struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`
}

// UploadBlobRequest asks for a presigned PUT for Path; the bytes go
// straight to object storage.
type UploadBlobRequest struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
}

type UploadBlobResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

type DeleteBlobsRequest struct {
	Paths []string `json:"paths"`
}

type DeleteBlobsResponse struct {
	Deleted int `json:"deleted"`
}
