package validate_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tgfetch/TGFetch/internal/validate"
)

var _ = Describe("ChatTarget", func() {
	type testCase struct {
		raw       any
		expect    any
		expectErr bool
	}
	DescribeTable("", func(tc testCase) {
		v, err := validate.ChatTarget(tc.raw)
		if tc.expectErr {
			Expect(err).To(HaveOccurred())
			return
		}
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(tc.expect))
	},
		Entry("should accept a positive id", testCase{raw: 12345, expect: int64(12345)}),
		Entry("should accept a negative channel id", testCase{raw: -1001234567890, expect: int64(-1001234567890)}),
		Entry("should strip the @ from usernames", testCase{raw: "@channel_name", expect: "channel_name"}),
		Entry("should accept a bare name", testCase{raw: "channel_name", expect: "channel_name"}),
		Entry("should coerce a numeric string", testCase{raw: "12345", expect: int64(12345)}),
		Entry("should reject zero", testCase{raw: 0, expectErr: true}),
		Entry("should reject an empty string", testCase{raw: "  ", expectErr: true}),
		Entry("should reject a lone @", testCase{raw: "@", expectErr: true}),
		Entry("should reject other types", testCase{raw: 1.5, expectErr: true}),
	)
})

var _ = Describe("APIID", func() {
	It("should accept positive ints", func() {
		v, err := validate.APIID(123)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(123))
	})

	It("should coerce numeric strings", func() {
		v, err := validate.APIID(" 456 ")
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(456))
	})

	It("should reject non-positive values", func() {
		_, err := validate.APIID(0)
		Expect(err).To(HaveOccurred())
		_, err = validate.APIID(-5)
		Expect(err).To(HaveOccurred())
	})

	It("should reject garbage", func() {
		_, err := validate.APIID("abc")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("APIHash", func() {
	It("should accept a long hex string", func() {
		v, err := validate.APIHash("abcdef0123456789abcdef")
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal("abcdef0123456789abcdef"))
	})

	It("should reject short strings", func() {
		_, err := validate.APIHash("abc123")
		Expect(err).To(HaveOccurred())
	})

	It("should reject non-hex characters", func() {
		_, err := validate.APIHash("zzzzzzzzzzzzzzzzzzzzzzzz")
		Expect(err).To(HaveOccurred())
	})

	It("should reject non-strings", func() {
		_, err := validate.APIHash(12345)
		Expect(err).To(HaveOccurred())
	})
})
