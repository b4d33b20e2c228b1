package media_test

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tgfetch/TGFetch/internal/media"
	"github.com/tgfetch/TGFetch/internal/types"
)

var _ = Describe("ResolveMeta", func() {
	docDate := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)

	It("should name voice notes by timestamp with path-safe colons", func() {
		m := &types.Media{Document: &types.DocumentInfo{
			ID: 9, MimeType: "audio/ogg", Date: docDate,
		}}
		meta := media.ResolveMeta(m, media.KindVoice, "/base")
		Expect(meta.Format).To(Equal("ogg"))
		Expect(meta.Path).To(Equal(filepath.Join("/base", "voice", "voice_2024-03-01T12-30-45.ogg")))
	})

	It("should name round videos by timestamp", func() {
		m := &types.Media{Document: &types.DocumentInfo{
			ID: 9, MimeType: "video/mp4", Date: docDate,
		}}
		meta := media.ResolveMeta(m, media.KindVideoNote, "/base")
		Expect(meta.Path).To(Equal(filepath.Join("/base", "video_note", "video_note_2024-03-01T12-30-45.mp4")))
	})

	It("should keep the original file name for documents", func() {
		m := &types.Media{Document: &types.DocumentInfo{
			ID: 9, MimeType: "application/pdf",
			Attributes: []types.DocumentAttribute{{FileName: "report.pdf"}},
		}}
		meta := media.ResolveMeta(m, media.KindDocument, "/base")
		Expect(meta.Format).To(Equal("pdf"))
		Expect(meta.Path).To(Equal(filepath.Join("/base", "document", "report.pdf")))
	})

	It("should fall back to kind and media id without a file name", func() {
		m := &types.Media{Document: &types.DocumentInfo{ID: 77, MimeType: "video/mp4"}}
		meta := media.ResolveMeta(m, media.KindVideo, "/base")
		Expect(meta.Path).To(Equal(filepath.Join("/base", "video", "video_77")))
	})

	It("should fix the photo format to jpg", func() {
		m := &types.Media{Photo: &types.PhotoInfo{ID: 5}}
		meta := media.ResolveMeta(m, media.KindPhoto, "/base")
		Expect(meta.Format).To(Equal("jpg"))
		Expect(meta.Path).To(Equal(filepath.Join("/base", "photo", "photo_5")))
	})
})
