package config_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tgfetch/TGFetch/internal/config"
)

var _ = Describe("Document", func() {
	Describe("Int", func() {
		type testCase struct {
			doc       config.Document
			def       int
			expect    int
			expectErr bool
		}
		DescribeTable("", func(tc testCase) {
			v, err := tc.doc.Int("k", tc.def)
			if tc.expectErr {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(tc.expect))
		},
			Entry("should read a plain int", testCase{doc: config.Document{"k": 7}, expect: 7}),
			Entry("should read an int64", testCase{doc: config.Document{"k": int64(7)}, expect: 7}),
			Entry("should coerce a numeric string", testCase{doc: config.Document{"k": "42"}, expect: 42}),
			Entry("should default when absent", testCase{doc: config.Document{}, def: 100, expect: 100}),
			Entry("should default on blank string", testCase{doc: config.Document{"k": "  "}, def: 5, expect: 5}),
			Entry("should fail on a non-numeric string", testCase{doc: config.Document{"k": "all"}, expectErr: true}),
		)
	})

	Describe("Time", func() {
		It("should parse a bare date as UTC midnight", func() {
			doc := config.Document{"k": "2024-03-01"}
			t, err := doc.Time("k")
			Expect(err).ToNot(HaveOccurred())
			Expect(t).To(Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
		})

		It("should treat a naive date-time as UTC", func() {
			doc := config.Document{"k": "2024-03-01 10:30:00"}
			t, err := doc.Time("k")
			Expect(err).ToNot(HaveOccurred())
			Expect(t).To(Equal(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))
		})

		It("should return the zero time when absent", func() {
			t, err := config.Document{}.Time("k")
			Expect(err).ToNot(HaveOccurred())
			Expect(t.IsZero()).To(BeTrue())
		})

		It("should fail on garbage", func() {
			_, err := config.Document{"k": "not-a-date"}.Time("k")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("IntSlice", func() {
		It("should tolerate mixed decodings", func() {
			doc := config.Document{"k": []any{1, int64(2), float64(3)}}
			Expect(doc.IntSlice("k")).To(Equal([]int{1, 2, 3}))
		})

		It("should be empty when absent", func() {
			Expect(config.Document{}.IntSlice("k")).To(BeEmpty())
		})
	})

	Describe("StrSliceMap", func() {
		It("should decode a YAML mapping of lists", func() {
			doc := config.Document{"k": map[string]any{
				"video": []any{"all"},
				"audio": []any{"mp3", "flac"},
			}}
			m := doc.StrSliceMap("k")
			Expect(m).To(HaveKeyWithValue("video", []string{"all"}))
			Expect(m).To(HaveKeyWithValue("audio", []string{"mp3", "flac"}))
		})
	})
})
