package fpx

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as a photo description,
	// into Markdown. Blank input converts to "".
	Convert(html string) (string, error)
}
