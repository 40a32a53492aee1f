package line

// Message is implemented by every outgoing message shape.
// The concrete types marshal directly to the Messaging API wire format.
type Message interface {
	message()
}

// TextMessage is a plain text reply.
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (TextMessage) message() {}

// NewText builds a text message.
func NewText(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

// ImageMessage carries a full-size content URL and a preview URL.
// Both must be absolute HTTPS URLs.
type ImageMessage struct {
	Type               string `json:"type"`
	OriginalContentURL string `json:"originalContentUrl"`
	PreviewImageURL    string `json:"previewImageUrl"`
}

func (ImageMessage) message() {}

// NewImage builds an image message from two resolved URLs.
func NewImage(original, preview string) ImageMessage {
	return ImageMessage{Type: "image", OriginalContentURL: original, PreviewImageURL: preview}
}

// FlexMessage wraps a flex layout document. Contents is the nested
// container document and is marshaled verbatim.
type FlexMessage struct {
	Type     string `json:"type"`
	AltText  string `json:"altText"`
	Contents any    `json:"contents"`
}

func (FlexMessage) message() {}

// NewFlex builds a flex message around a raw container document.
func NewFlex(altText string, contents any) FlexMessage {
	return FlexMessage{Type: "flex", AltText: altText, Contents: contents}
}

// Reply pairs a reply token with the ordered messages to deliver.
type Reply struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}
