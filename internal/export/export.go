package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tgfetch/TGFetch/internal/log"
	"github.com/tgfetch/TGFetch/internal/media"
	"github.com/tgfetch/TGFetch/internal/types"
)

// Record is the exported JSON shape of one message.
type Record struct {
	MessageID     int     `json:"message_id"`
	Date          *string `json:"date"`
	Text          string  `json:"text"`
	SenderID      int64   `json:"sender_id"`
	ChatID        int64   `json:"chat_id"`
	MediaType     *string `json:"media_type"`
	MediaFileName *string `json:"media_file_name"`
	Views         int     `json:"views"`
	Forwards      int     `json:"forwards"`
	IsReply       bool    `json:"is_reply"`
	ReplyToID     *int    `json:"reply_to_id"`
}

// Serialize converts a message to its export Record.
func Serialize(msg *types.Message) Record {
	rec := Record{
		MessageID: msg.ID,
		Text:      msg.Text,
		SenderID:  msg.SenderID,
		ChatID:    msg.ChatID,
		Views:     msg.Views,
		Forwards:  msg.Forwards,
		IsReply:   msg.IsReply(),
	}
	if !msg.Date.IsZero() {
		date := msg.Date.UTC().Format(time.RFC3339)
		rec.Date = &date
	}
	if msg.IsReply() {
		replyTo := msg.ReplyToID
		rec.ReplyToID = &replyTo
	}
	if kind, ok := media.Classify(msg); ok {
		kindStr := string(kind)
		rec.MediaType = &kindStr
		if msg.Media.Document != nil {
			if name := msg.Media.Document.FileName(); name != "" {
				rec.MediaFileName = &name
			}
		}
	}
	return rec
}

// SaveMessages writes message metadata as a pretty-printed JSON array. In
// append mode the file's existing records are merged in first and
// duplicate message ids are skipped.
func SaveMessages(messages []*types.Message, path string, appendMode bool) error {
	ll := getLogger("SaveMessages")
	serialized := make([]Record, 0, len(messages))
	for _, msg := range messages {
		serialized = append(serialized, Serialize(msg))
	}

	if appendMode {
		existing := []Record{}
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := json.Unmarshal(raw, &existing); err != nil {
				ll.WithError(err).Warnf("ignoring unparsable export file %s", path)
				existing = []Record{}
			}
		}
		seen := map[int]struct{}{}
		for _, rec := range existing {
			seen[rec.MessageID] = struct{}{}
		}
		for _, rec := range serialized {
			if _, ok := seen[rec.MessageID]; ok {
				continue
			}
			existing = append(existing, rec)
			seen[rec.MessageID] = struct{}{}
		}
		serialized = existing
	}

	out, err := json.MarshalIndent(serialized, "", "  ")
	if err != nil {
		return fmt.Errorf("can not marshal messages: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("can not write export file %s: %w", path, err)
	}
	ll.Infof("exported %d messages to %s", len(serialized), path)
	return nil
}

func getLogger(fn string) *logrus.Entry {
	return log.GetLogger(log.ExportModule).WithField("func", fn)
}
