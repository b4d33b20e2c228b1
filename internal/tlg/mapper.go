package tlg

import (
	"time"

	"github.com/gotd/td/tg"

	"github.com/tgfetch/TGFetch/internal/types"
)

// mapMessage converts a wire message to the transport-independent shape.
// Document attribute order is kept as supplied: classification depends on
// the first flagged attribute.
func mapMessage(chatID int64, msg *tg.Message) *types.Message {
	out := &types.Message{
		ID:       msg.ID,
		ChatID:   chatID,
		Date:     time.Unix(int64(msg.Date), 0).UTC(),
		Text:     msg.Message,
		Views:    msg.Views,
		Forwards: msg.Forwards,
	}
	if out.ChatID == 0 {
		out.ChatID = peerID(msg.PeerID)
	}
	if from, ok := msg.FromID.(*tg.PeerUser); ok {
		out.SenderID = from.UserID
	}
	if reply, ok := msg.ReplyTo.(*tg.MessageReplyHeader); ok {
		out.ReplyToID = reply.ReplyToMsgID
	}
	out.Media = mapMedia(msg.Media)
	return out
}

func mapMedia(media tg.MessageMediaClass) *types.Media {
	switch m := media.(type) {
	case *tg.MessageMediaPhoto:
		photo, ok := m.Photo.(*tg.Photo)
		if !ok {
			return nil
		}
		info := &types.PhotoInfo{
			ID:            photo.ID,
			AccessHash:    photo.AccessHash,
			FileReference: photo.FileReference,
			Date:          time.Unix(int64(photo.Date), 0).UTC(),
		}
		for _, sizeCls := range photo.Sizes {
			if size, ok := sizeCls.(*tg.PhotoSize); ok && int64(size.Size) >= info.Size {
				info.Size = int64(size.Size)
				info.ThumbType = size.Type
			}
		}
		return &types.Media{Photo: info}
	case *tg.MessageMediaDocument:
		doc, ok := m.Document.AsNotEmpty()
		if !ok {
			return nil
		}
		info := &types.DocumentInfo{
			ID:            doc.ID,
			AccessHash:    doc.AccessHash,
			FileReference: doc.FileReference,
			Size:          doc.Size,
			MimeType:      doc.MimeType,
			Date:          time.Unix(int64(doc.Date), 0).UTC(),
		}
		for _, attrCls := range doc.Attributes {
			switch attr := attrCls.(type) {
			case *tg.DocumentAttributeAudio:
				voice := attr.Voice
				info.Attributes = append(info.Attributes, types.DocumentAttribute{Voice: &voice})
			case *tg.DocumentAttributeVideo:
				round := attr.RoundMessage
				info.Attributes = append(info.Attributes, types.DocumentAttribute{Round: &round})
			case *tg.DocumentAttributeFilename:
				info.Attributes = append(info.Attributes, types.DocumentAttribute{FileName: attr.FileName})
			}
		}
		return &types.Media{Document: info}
	}
	return nil
}

func peerID(peer tg.PeerClass) int64 {
	switch p := peer.(type) {
	case *tg.PeerUser:
		return p.UserID
	case *tg.PeerChat:
		return p.ChatID
	case *tg.PeerChannel:
		return p.ChannelID
	}
	return 0
}
