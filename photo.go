package fpx

import "context"

// Image sizes requested from the photo API.
const (
	ImageSizeSmall = 21
	ImageSizeLarge = 1080
)

// DefaultFeed is the feed browsed when none is specified.
const DefaultFeed = "popular"

// Photo represents a photo item from a feed with its dimensions,
// EXIF, user, location and image details.
type Photo struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Images       []Image  `json:"images"`
	TakenAt      string   `json:"taken_at,omitempty"`
	CreatedAt    string   `json:"created_at,omitempty"`
	ViewCount    int      `json:"times_viewed"`
	VoteCount    int      `json:"votes_count"`
	CommentCount int      `json:"comments_count"`
	Rating       float64  `json:"rating"`
	User         User     `json:"user"`
	Camera       string   `json:"camera,omitempty"`
	Lens         string   `json:"lens,omitempty"`
	FocalLength  string   `json:"focal_length,omitempty"`
	ISO          string   `json:"iso,omitempty"`
	Aperture     string   `json:"aperture,omitempty"`
	ShutterSpeed string   `json:"shutter_speed,omitempty"`
	Location     string   `json:"location,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// Image is a single rendition of a photo.
type Image struct {
	Size int    `json:"size"`
	URL  string `json:"url"`
}

// User is the author of a photo.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname,omitempty"`
}

// PhotoPage is one page of a feed as returned by the photo API.
type PhotoPage struct {
	Photos      []Photo `json:"photos"`
	CurrentPage int     `json:"current_page"`
	TotalPages  int     `json:"total_pages"`
	TotalItems  int     `json:"total_items"`
}

// HasMore reports whether pages exist after page when each page holds pageSize items.
func (p *PhotoPage) HasMore(page, pageSize int) bool {
	return p.TotalItems > page*pageSize
}

// PageRequest identifies one page of a feed.
type PageRequest struct {
	Feed     string
	Page     int
	PageSize int
}

// Validate returns an error if the request contains invalid fields.
func (r PageRequest) Validate() error {
	if r.Feed == "" {
		return Errorf(EINVALID, "feed required")
	}
	if r.Page < 1 {
		return Errorf(EINVALID, "page must be >= 1, got %d", r.Page)
	}
	if r.PageSize < 1 {
		return Errorf(EINVALID, "page size must be > 0, got %d", r.PageSize)
	}
	return nil
}

// PhotoFetcher retrieves pages of a photo feed.
// Implementations must be safe to call repeatedly with the same arguments.
type PhotoFetcher interface {
	// FetchPage returns the 1-based page of the named feed.
	FetchPage(ctx context.Context, feed string, page, pageSize int) (*PhotoPage, error)
}

// PhotoFinder retrieves a single photo with full details.
type PhotoFinder interface {
	// FindPhotoByID returns the photo with the given ID.
	// Returns ENOTFOUND if the photo does not exist.
	FindPhotoByID(ctx context.Context, id int64) (*Photo, error)
}
