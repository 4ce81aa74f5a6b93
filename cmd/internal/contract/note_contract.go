package contract

type NoteResponse struct {
	ID          int64  `json:"id"`
	Owner       string `json:"owner"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	IsPublic    bool   `json:"is_public"`
	IsFavorite  bool   `json:"is_favorite"`
	IsCompleted bool   `json:"is_completed"`
	ViewCount   int64  `json:"view_count"`
	LikeCount   int    `json:"like_count"`
	Liked       bool   `json:"liked"`
	CreatedAt   string `json:"created_at"`
	EditedAt    string `json:"edited_at"`
}

type NoteRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=120"`
	Body        string `json:"body" validate:"max=1000000"`
	IsPublic    bool   `json:"is_public"`
	IsFavorite  bool   `json:"is_favorite"`
	IsCompleted bool   `json:"is_completed"`
}

type UpdateNoteRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=120"`
	Body        *string `json:"body" validate:"omitempty,max=1000000"`
	IsPublic    *bool   `json:"is_public"`
	IsFavorite  *bool   `json:"is_favorite"`
	IsCompleted *bool   `json:"is_completed"`
}

type LikeResponse struct {
	ID        int64 `json:"id"`
	Liked     bool  `json:"liked"`
	LikeCount int   `json:"like_count"`
}

// PageRequest is the 1-based page requested by list routes.
type PageRequest struct {
	Page     int
	PageSize int
}

type NotePage struct {
	Count    int64           `json:"count"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Next     *int            `json:"next"`
	Previous *int            `json:"previous"`
	Results  []*NoteResponse `json:"results"`
}
