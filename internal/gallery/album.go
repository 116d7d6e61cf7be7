package gallery

// Album is fetched from the storage service for the lifetime of one
// request; downstream handlers treat it as read-only.
type Album struct {
	ID        string `json:"id"`
	BucketID  string `json:"bucket_id"`
	Name      string `json:"name"`
	Label     string `json:"label"`
	FileCount int64  `json:"file_count"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// NewAlbumForm is the browser-submitted creation form, including the
// scoped action token minted for the "new_album" subject.
type NewAlbumForm struct {
	Name  string `form:"name"`
	Label string `form:"label"`
	Token string `form:"token"`
}

// NewAlbum is the creation payload sent upstream.
type NewAlbum struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type UpdateAlbumForm struct {
	Label string `form:"label"`
	Token string `form:"token"`
}

type UpdateAlbum struct {
	Label string `json:"label"`
}

type DeleteAlbumForm struct {
	Token string `form:"token"`
}

type DeletePhotoForm struct {
	Token string `form:"token"`
}
