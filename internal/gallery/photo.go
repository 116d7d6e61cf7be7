package gallery

import "errors"

var errNotAnImage = errors.New("file is not an image")
var errMissingVersions = errors.New("missing image versions")

// ImgVersion identifies one rendition of an image file.
type ImgVersion string

const (
	VersionOriginal  ImgVersion = "orig"
	VersionPreview   ImgVersion = "prev"
	VersionThumbnail ImgVersion = "thumb"
)

type ImgDimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FileObject is the raw file entry returned by the storage service. URL is
// only present on non-image files; ImgVersions only on images.
type FileObject struct {
	ID          string          `json:"id"`
	DirID       string          `json:"dir_id"`
	Name        string          `json:"name"`
	Filename    string          `json:"filename"`
	ContentType string          `json:"content_type"`
	Size        int64           `json:"size"`
	URL         string          `json:"url,omitempty"`
	IsImage     bool            `json:"is_image"`
	ImgVersions []ImgVersionDTO `json:"img_versions,omitempty"`
	CreatedAt   int64           `json:"created_at"`
	UpdatedAt   int64           `json:"updated_at"`
}

type ImgVersionDTO struct {
	Version   string       `json:"version"`
	Dimension ImgDimension `json:"dimension"`
	URL       string       `json:"url,omitempty"`
}

type PhotoVersion struct {
	Version   ImgVersion   `json:"version"`
	Dimension ImgDimension `json:"dimension"`
	URL       string       `json:"url"`
}

// Photo is the projection of an image FileObject with its full set of
// renditions resolved.
type Photo struct {
	ID          string       `json:"id"`
	DirID       string       `json:"dir_id"`
	Name        string       `json:"name"`
	Filename    string       `json:"filename"`
	ContentType string       `json:"content_type"`
	Size        int64        `json:"size"`
	Orig        PhotoVersion `json:"orig"`
	Preview     PhotoVersion `json:"preview"`
	Thumb       PhotoVersion `json:"thumb"`
	CreatedAt   int64        `json:"created_at"`
	UpdatedAt   int64        `json:"updated_at"`
}

// PhotoFromFile projects a FileObject into a Photo. It fails when the file
// is not an image or lacks a usable set of renditions. A missing preview
// falls back to the original; a missing original or thumbnail is fatal.
func PhotoFromFile(file FileObject) (Photo, error) {
	if !file.IsImage {
		return Photo{}, errNotAnImage
	}
	if file.ImgVersions == nil {
		return Photo{}, errMissingVersions
	}

	var orig, preview, thumb *PhotoVersion
	for _, v := range file.ImgVersions {
		if v.URL == "" {
			continue
		}
		pv := PhotoVersion{Version: ImgVersion(v.Version), Dimension: v.Dimension, URL: v.URL}
		switch pv.Version {
		case VersionOriginal:
			orig = &pv
		case VersionPreview:
			preview = &pv
		case VersionThumbnail:
			thumb = &pv
		}
	}

	if preview == nil && orig != nil {
		preview = orig
	}
	if orig == nil || preview == nil || thumb == nil {
		return Photo{}, errMissingVersions
	}

	return Photo{
		ID:          file.ID,
		DirID:       file.DirID,
		Name:        file.Name,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
		Orig:        *orig,
		Preview:     *preview,
		Thumb:       *thumb,
		CreatedAt:   file.CreatedAt,
		UpdatedAt:   file.UpdatedAt,
	}, nil
}

// ProjectPhotos converts a file listing into the photo projection, dropping
// entries that cannot be projected instead of failing the whole listing.
func ProjectPhotos(files []FileObject) []Photo {
	photos := make([]Photo, 0, len(files))
	for _, f := range files {
		photo, err := PhotoFromFile(f)
		if err != nil {
			continue
		}
		photos = append(photos, photo)
	}
	return photos
}
