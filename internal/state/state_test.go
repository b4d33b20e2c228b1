package state_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tgfetch/TGFetch/internal/state"
)

var _ = Describe("DownloadState", func() {
	var st *state.DownloadState

	BeforeEach(func() {
		st = state.NewDownloadState()
	})

	It("should record a download once", func() {
		st.MarkDownloaded(10, 100)
		st.MarkDownloaded(10, 100)
		Expect(st.DownloadedCount()).To(Equal(1))
		Expect(st.TotalSizeBytes()).To(Equal(int64(100)))
	})

	It("should keep an id in at most one set", func() {
		st.MarkFailed(10)
		st.MarkDownloaded(10, 50)
		Expect(st.FailedCount()).To(Equal(0))
		Expect(st.DownloadedCount()).To(Equal(1))

		st.MarkFailed(10)
		Expect(st.FailedCount()).To(Equal(0))
		Expect(st.DownloadedCount()).To(Equal(1))
	})

	It("should accumulate sizes across distinct ids", func() {
		st.MarkDownloaded(1, 10)
		st.MarkDownloaded(2, 20)
		st.MarkDownloaded(3, 30)
		Expect(st.TotalSizeBytes()).To(Equal(int64(60)))
	})

	It("should tolerate concurrent marking", func() {
		var wg sync.WaitGroup
		for i := 1; i <= 100; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				if id%2 == 0 {
					st.MarkDownloaded(id, 1)
				} else {
					st.MarkFailed(id)
				}
			}(i)
		}
		wg.Wait()
		Expect(st.DownloadedCount()).To(Equal(50))
		Expect(st.FailedCount()).To(Equal(50))
		Expect(st.TotalSizeBytes()).To(Equal(int64(50)))
	})

	Describe("RetryIDs", func() {
		It("should drop resolved ids and add new failures", func() {
			st.MarkDownloaded(2, 10)
			st.MarkFailed(4)
			Expect(st.RetryIDs([]int{1, 2, 3})).To(ConsistOf(1, 3, 4))
		})

		It("should be empty with no history", func() {
			Expect(st.RetryIDs(nil)).To(BeEmpty())
		})
	})

	It("should reset to empty", func() {
		st.MarkDownloaded(1, 10)
		st.MarkFailed(2)
		st.Reset()
		Expect(st.DownloadedCount()).To(Equal(0))
		Expect(st.FailedCount()).To(Equal(0))
		Expect(st.TotalSizeBytes()).To(Equal(int64(0)))
	})
})
