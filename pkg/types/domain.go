package types

// DefaultScale is applied when a request does not carry a scale field.
const DefaultScale = 4

// UpscaleRequest is a single uploaded image plus its requested scale.
type UpscaleRequest struct {
	Image    []byte
	Filename string
	Scale    int
}

// UpscaleResult is what gets written back to the client.
// Width and Height are zero when the body is passed through from a remote API.
type UpscaleResult struct {
	Body        []byte
	ContentType string
	Width       int
	Height      int
}
