package state

import (
	"sort"
	"sync"
)

// DownloadState is the mutable per-session record of download outcomes.
// Every in-flight download of a batch writes to it, so all mutations are
// serialized behind a mutex. An id lives in at most one of the two sets.
type DownloadState struct {
	mu             sync.Mutex
	downloaded     map[int]struct{}
	failed         map[int]struct{}
	totalSizeBytes int64
}

func NewDownloadState() *DownloadState {
	return &DownloadState{
		downloaded: map[int]struct{}{},
		failed:     map[int]struct{}{},
	}
}

// MarkDownloaded records a completed download and its on-disk size. A
// repeated call with the same id is a no-op, so the byte counter stays
// monotonic and exact. A previously failed id that later succeeds moves
// out of the failed set.
func (s *DownloadState) MarkDownloaded(messageID int, fileSize int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.downloaded[messageID]; ok {
		return
	}
	s.downloaded[messageID] = struct{}{}
	delete(s.failed, messageID)
	s.totalSizeBytes += fileSize
}

// MarkFailed records a terminally failed download. Ids already downloaded
// are not demoted.
func (s *DownloadState) MarkFailed(messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.downloaded[messageID]; ok {
		return
	}
	s.failed[messageID] = struct{}{}
}

func (s *DownloadState) DownloadedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.downloaded)
}

func (s *DownloadState) FailedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.failed)
}

func (s *DownloadState) TotalSizeBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalSizeBytes
}

// Reset clears the state for a new session.
func (s *DownloadState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloaded = map[int]struct{}{}
	s.failed = map[int]struct{}{}
	s.totalSizeBytes = 0
}

// RetryIDs derives the next run's retry list: previous retry ids minus
// everything downloaded this session, plus everything that failed this
// session. The result is sorted for stable config output.
func (s *DownloadState) RetryIDs(previous []int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[int]struct{}{}
	for _, id := range previous {
		if _, ok := s.downloaded[id]; !ok {
			out[id] = struct{}{}
		}
	}
	for id := range s.failed {
		out[id] = struct{}{}
	}
	ids := make([]int, 0, len(out))
	for id := range out {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
