package media

import (
	"github.com/tgfetch/TGFetch/internal/types"
)

// Kind is the closed classification of a message attachment.
type Kind string

const (
	KindPhoto     Kind = "photo"
	KindVideo     Kind = "video"
	KindAudio     Kind = "audio"
	KindVoice     Kind = "voice"
	KindVideoNote Kind = "video_note"
	KindDocument  Kind = "document"
)

// AllKinds lists every valid Kind.
func AllKinds() []Kind {
	return []Kind{KindPhoto, KindVideo, KindAudio, KindVoice, KindVideoNote, KindDocument}
}

// ParseKinds filters an accepted-types config list down to valid kinds.
func ParseKinds(raw []string) map[Kind]struct{} {
	valid := map[Kind]struct{}{}
	for _, k := range AllKinds() {
		valid[k] = struct{}{}
	}
	out := map[Kind]struct{}{}
	for _, r := range raw {
		if _, ok := valid[Kind(r)]; ok {
			out[Kind(r)] = struct{}{}
		}
	}
	return out
}

// Classify maps a message's media payload to its Kind from structural
// attributes only. A photo payload short-circuits to KindPhoto. For a
// document the attributes are scanned in wire order and the first flagged
// attribute decides: a voice flag yields voice/audio, a round flag yields
// video_note/video. No flag means a plain document. Messages without media
// return false.
func Classify(msg *types.Message) (Kind, bool) {
	if msg.Media == nil {
		return "", false
	}
	if msg.Media.Photo != nil {
		return KindPhoto, true
	}
	doc := msg.Media.Document
	if doc == nil {
		return "", false
	}
	for _, attr := range doc.Attributes {
		if attr.Voice != nil {
			if *attr.Voice {
				return KindVoice, true
			}
			return KindAudio, true
		}
		if attr.Round != nil {
			if *attr.Round {
				return KindVideoNote, true
			}
			return KindVideo, true
		}
	}
	return KindDocument, true
}
