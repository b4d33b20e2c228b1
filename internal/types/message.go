package types

import "time"

// Message is the transport-independent view of a single chat message. The
// tlg package maps raw MTProto messages into this shape so the dispatcher
// and orchestrator never touch wire types.
type Message struct {
	ID        int
	ChatID    int64
	SenderID  int64
	Date      time.Time
	Text      string
	Views     int
	Forwards  int
	ReplyToID int
	Media     *Media
}

func (m *Message) IsReply() bool {
	return m.ReplyToID != 0
}

// Media is the attachment payload of a message. Exactly one of the fields
// is set when media is present.
type Media struct {
	Photo    *PhotoInfo
	Document *DocumentInfo
}

type PhotoInfo struct {
	ID            int64
	AccessHash    int64
	FileReference []byte
	ThumbType     string
	Size          int64
	Date          time.Time
}

type DocumentInfo struct {
	ID            int64
	AccessHash    int64
	FileReference []byte
	Size          int64
	MimeType      string
	Date          time.Time
	Attributes    []DocumentAttribute
}

// DocumentAttribute carries the structural flags of a document attribute.
// Attribute order is preserved from the wire message: classification scans
// the slice front to back and the first flagged attribute wins.
type DocumentAttribute struct {
	FileName string
	Voice    *bool
	Round    *bool
}

// FileName returns the original file name attribute of a document, if any.
func (d *DocumentInfo) FileName() string {
	for _, attr := range d.Attributes {
		if attr.FileName != "" {
			return attr.FileName
		}
	}
	return ""
}
