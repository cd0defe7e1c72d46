package fpx

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SmallImage returns the URL of the thumbnail rendition, or "" if absent.
func (p *Photo) SmallImage() string {
	return p.imageURL(ImageSizeSmall)
}

// LargeImage returns the URL of the fullscreen rendition,
// falling back to the thumbnail.
func (p *Photo) LargeImage() string {
	if u := p.imageURL(ImageSizeLarge); u != "" {
		return u
	}
	return p.SmallImage()
}

func (p *Photo) imageURL(size int) string {
	for _, img := range p.Images {
		if img.Size == size {
			return img.URL
		}
	}
	return ""
}

// HasLocation reports whether the photo has a named location or a full coordinate pair.
func (p *Photo) HasLocation() bool {
	return strings.TrimSpace(p.Location) != "" || p.hasCoordinates()
}

func (p *Photo) hasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// LocationDetails returns the location name and coordinates on separate lines.
func (p *Photo) LocationDetails() string {
	var lines []string
	if loc := strings.TrimSpace(p.Location); loc != "" {
		lines = append(lines, loc)
	}
	if p.hasCoordinates() {
		lines = append(lines, formatCoordinate(*p.Latitude)+", "+formatCoordinate(*p.Longitude))
	}
	return strings.Join(lines, "\n")
}

// CameraDetails returns the camera and lens on the first line and the
// exposure settings on the second. Missing values are skipped.
func (p *Photo) CameraDetails() string {
	gear := joinNonBlank(" ", p.Camera, p.Lens)
	settings := joinNonBlank(" ",
		prefixNonBlank("f/", p.Aperture),
		p.ShutterSpeed,
		suffixNonBlank(p.FocalLength, "mm"),
		prefixNonBlank("ISO ", p.ISO),
	)
	return joinNonBlank("\n", gear, settings)
}

const (
	apiTimeLayout     = "2006-01-02T15:04:05"
	displayTimeLayout = "Monday, January 2 2006"
)

// DisplayDate formats the date the photo was taken, falling back to the
// upload date. Returns "" when neither parses.
func (p *Photo) DisplayDate() string {
	date := p.TakenAt
	if date == "" {
		date = p.CreatedAt
	}
	if len(date) < len(apiTimeLayout) {
		return ""
	}
	t, err := time.Parse(apiTimeLayout, date[:len(apiTimeLayout)])
	if err != nil {
		return ""
	}
	return t.Format(displayTimeLayout)
}

// FormatDetails renders the details sheet for a photo. The description
// is expected to be already converted to plain text or markdown.
func FormatDetails(p *Photo, description string) string {
	var b strings.Builder
	b.WriteString(p.Name)
	b.WriteString("\n")
	if p.User.Fullname != "" {
		fmt.Fprintf(&b, "by %s (@%s)\n", p.User.Fullname, p.User.Username)
	} else {
		fmt.Fprintf(&b, "by @%s\n", p.User.Username)
	}
	if date := p.DisplayDate(); date != "" {
		b.WriteString(date)
		b.WriteString("\n")
	}

	sections := []string{
		strings.TrimSpace(description),
		p.CameraDetails(),
		p.LocationDetails(),
		fmt.Sprintf("Views %d · Votes %d · Comments %d · Rating %.1f",
			p.ViewCount, p.VoteCount, p.CommentCount, p.Rating),
	}
	for _, s := range sections {
		if s == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}

// formatCoordinate always keeps a fractional part, e.g. "1.0".
func formatCoordinate(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func joinNonBlank(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}

func prefixNonBlank(prefix, s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return prefix + s
}

func suffixNonBlank(s, suffix string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s + suffix
}
