package dto

// Page is one page of a cursor-paginated remote collection
type Page[T any] struct {
	Items         []T    `json:"items"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

// ChannelVideoQuery describes a per-channel video search
type ChannelVideoQuery struct {
	ChannelID  string
	MaxResults int64
	// Order is passed through to search.list (e.g. "date"); empty keeps the API default.
	Order string
	// Duration filters by video length ("short", "medium", "long"); empty means any.
	Duration string
}
