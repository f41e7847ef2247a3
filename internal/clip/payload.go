package clip

// Payload is either a TextPayload or an ImagePayload.
type Payload interface {
	isPayload()
	// MIME returns the type announced to the clipboard helper.
	MIME() string
	// Bytes returns the data piped to the helper.
	Bytes() []byte
}

// TextPayload carries UTF-8 text.
type TextPayload struct {
	Text string
}

// ImagePayload carries encoded image data and its MIME type.
type ImagePayload struct {
	Data []byte
	Type string
}

// TextMIME is announced for text written through helpers.
const TextMIME = "text/plain;charset=utf-8"

func (TextPayload) isPayload()      {}
func (TextPayload) MIME() string    { return TextMIME }
func (p TextPayload) Bytes() []byte { return []byte(p.Text) }

func (ImagePayload) isPayload()      {}
func (p ImagePayload) MIME() string  { return p.Type }
func (p ImagePayload) Bytes() []byte { return p.Data }
