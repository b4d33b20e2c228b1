package media_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tgfetch/TGFetch/internal/media"
	"github.com/tgfetch/TGFetch/internal/types"
)

func boolPtr(b bool) *bool {
	return &b
}

func docMessage(attrs ...types.DocumentAttribute) *types.Message {
	return &types.Message{
		ID:   1,
		Date: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Media: &types.Media{
			Document: &types.DocumentInfo{ID: 42, Attributes: attrs},
		},
	}
}

var _ = Describe("Classify", func() {
	type testCase struct {
		msg        *types.Message
		expectKind media.Kind
		expectOk   bool
	}
	DescribeTable("", func(tc testCase) {
		kind, ok := media.Classify(tc.msg)
		Expect(ok).To(Equal(tc.expectOk))
		if tc.expectOk {
			Expect(kind).To(Equal(tc.expectKind))
		}
	},
		Entry("should return false without media", testCase{
			msg: &types.Message{ID: 1},
		}),
		Entry("should return false for empty media payload", testCase{
			msg: &types.Message{ID: 1, Media: &types.Media{}},
		}),
		Entry("should short-circuit photos", testCase{
			msg: &types.Message{ID: 1, Media: &types.Media{
				Photo: &types.PhotoInfo{ID: 7},
				Document: &types.DocumentInfo{ID: 8, Attributes: []types.DocumentAttribute{
					{Voice: boolPtr(true)},
				}},
			}},
			expectKind: media.KindPhoto,
			expectOk:   true,
		}),
		Entry("should classify a voice note", testCase{
			msg:        docMessage(types.DocumentAttribute{Voice: boolPtr(true)}),
			expectKind: media.KindVoice,
			expectOk:   true,
		}),
		Entry("should classify plain audio", testCase{
			msg:        docMessage(types.DocumentAttribute{Voice: boolPtr(false)}),
			expectKind: media.KindAudio,
			expectOk:   true,
		}),
		Entry("should classify a round video", testCase{
			msg:        docMessage(types.DocumentAttribute{Round: boolPtr(true)}),
			expectKind: media.KindVideoNote,
			expectOk:   true,
		}),
		Entry("should classify plain video", testCase{
			msg:        docMessage(types.DocumentAttribute{Round: boolPtr(false)}),
			expectKind: media.KindVideo,
			expectOk:   true,
		}),
		Entry("should let the first flagged attribute win", testCase{
			msg: docMessage(
				types.DocumentAttribute{FileName: "a.ogg"},
				types.DocumentAttribute{Voice: boolPtr(true)},
				types.DocumentAttribute{Round: boolPtr(true)},
			),
			expectKind: media.KindVoice,
			expectOk:   true,
		}),
		Entry("should fall back to document without flags", testCase{
			msg:        docMessage(types.DocumentAttribute{FileName: "report.pdf"}),
			expectKind: media.KindDocument,
			expectOk:   true,
		}),
	)
})

var _ = Describe("ParseKinds", func() {
	It("should keep only valid kinds", func() {
		kinds := media.ParseKinds([]string{"photo", "video", "nonsense"})
		Expect(kinds).To(HaveLen(2))
		Expect(kinds).To(HaveKey(media.KindPhoto))
		Expect(kinds).To(HaveKey(media.KindVideo))
	})
})
