package export_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tgfetch/TGFetch/internal/export"
	"github.com/tgfetch/TGFetch/internal/types"
)

func textMessage(id int) *types.Message {
	return &types.Message{
		ID:       id,
		ChatID:   -100123,
		SenderID: 555,
		Date:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Text:     "hello",
	}
}

var _ = Describe("Serialize", func() {
	It("should fill all fields of a media reply", func() {
		msg := textMessage(7)
		msg.ReplyToID = 3
		msg.Views = 10
		msg.Forwards = 2
		msg.Media = &types.Media{Document: &types.DocumentInfo{
			ID: 1, MimeType: "application/pdf",
			Attributes: []types.DocumentAttribute{{FileName: "report.pdf"}},
		}}
		rec := export.Serialize(msg)
		Expect(rec.MessageID).To(Equal(7))
		Expect(rec.Date).ToNot(BeNil())
		Expect(*rec.Date).To(Equal("2024-03-01T09:00:00Z"))
		Expect(rec.IsReply).To(BeTrue())
		Expect(rec.ReplyToID).ToNot(BeNil())
		Expect(*rec.ReplyToID).To(Equal(3))
		Expect(rec.MediaType).ToNot(BeNil())
		Expect(*rec.MediaType).To(Equal("document"))
		Expect(rec.MediaFileName).ToNot(BeNil())
		Expect(*rec.MediaFileName).To(Equal("report.pdf"))
	})

	It("should leave media fields null for text messages", func() {
		rec := export.Serialize(textMessage(8))
		Expect(rec.MediaType).To(BeNil())
		Expect(rec.MediaFileName).To(BeNil())
		Expect(rec.ReplyToID).To(BeNil())
		Expect(rec.IsReply).To(BeFalse())
	})
})

var _ = Describe("SaveMessages", func() {
	var path string

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "messages_export.json")
	})

	readRecords := func() []export.Record {
		raw, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())
		recs := []export.Record{}
		Expect(json.Unmarshal(raw, &recs)).To(Succeed())
		return recs
	}

	It("should write a pretty-printed JSON array", func() {
		Expect(export.SaveMessages([]*types.Message{textMessage(1), textMessage(2)}, path, false)).To(Succeed())
		raw, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring("\n  "))
		Expect(readRecords()).To(HaveLen(2))
	})

	It("should merge by message id in append mode", func() {
		Expect(export.SaveMessages([]*types.Message{textMessage(1), textMessage(2)}, path, true)).To(Succeed())
		Expect(export.SaveMessages([]*types.Message{textMessage(2), textMessage(3)}, path, true)).To(Succeed())
		recs := readRecords()
		Expect(recs).To(HaveLen(3))
		ids := []int{}
		for _, r := range recs {
			ids = append(ids, r.MessageID)
		}
		Expect(ids).To(ConsistOf(1, 2, 3))
	})

	It("should overwrite without append mode", func() {
		Expect(export.SaveMessages([]*types.Message{textMessage(1)}, path, false)).To(Succeed())
		Expect(export.SaveMessages([]*types.Message{textMessage(2)}, path, false)).To(Succeed())
		recs := readRecords()
		Expect(recs).To(HaveLen(1))
		Expect(recs[0].MessageID).To(Equal(2))
	})
})
