package types

// ContentKind is the coarse extension-derived classification used to
// route an item to the matching model path.
type ContentKind int

const (
	// ContentUnknown means the extension matched neither route
	ContentUnknown ContentKind = iota
	// ContentText routes to the text model
	ContentText
	// ContentImage routes to the vision model
	ContentImage
)

// String returns a human-readable kind name
func (k ContentKind) String() string {
	switch k {
	case ContentText:
		return "text"
	case ContentImage:
		return "image"
	default:
		return "unknown"
	}
}
