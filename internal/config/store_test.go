package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tgfetch/TGFetch/internal/config"
)

var _ = Describe("Store", func() {
	var (
		dir   string
		path  string
		store *config.Store
	)

	seed := `api_id: 12345
api_hash: abcdef0123456789abcdef
chat_id: "@somechannel"
last_read_message_id: 10
custom_unknown_key: keep-me
nested:
  inner: value
`

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		path = filepath.Join(dir, "config.yaml")
		Expect(os.WriteFile(path, []byte(seed), 0o644)).To(Succeed())
		store = config.NewStore(path, 3)
	})

	It("should load the YAML document", func() {
		doc, err := store.Load()
		Expect(err).ToNot(HaveOccurred())
		v, err := doc.Int("api_id", 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(12345))
		Expect(doc.Str("chat_id")).To(Equal("@somechannel"))
	})

	It("should fail on a missing file", func() {
		_, err := config.NewStore(filepath.Join(dir, "nope.yaml"), 3).Load()
		Expect(err).To(HaveOccurred())
	})

	It("should preserve unknown keys across an update", func() {
		doc, err := store.Load()
		Expect(err).ToNot(HaveOccurred())
		err = store.Update(doc, map[string]any{
			"last_read_message_id": 99,
			"ids_to_retry":         []int{4, 5},
		}, true)
		Expect(err).ToNot(HaveOccurred())

		reloaded, err := store.Load()
		Expect(err).ToNot(HaveOccurred())
		cursor, err := reloaded.Int("last_read_message_id", 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(cursor).To(Equal(99))
		Expect(reloaded.IntSlice("ids_to_retry")).To(Equal([]int{4, 5}))
		Expect(reloaded.Str("custom_unknown_key")).To(Equal("keep-me"))
		Expect(reloaded.Map("nested")).To(HaveKeyWithValue("inner", "value"))
	})

	It("should rotate backups keeping the newest N", func() {
		doc, err := store.Load()
		Expect(err).ToNot(HaveOccurred())
		for i := 0; i < 6; i++ {
			Expect(store.Update(doc, map[string]any{"last_read_message_id": i}, true)).To(Succeed())
		}
		backups, err := store.Backups()
		Expect(err).ToNot(HaveOccurred())
		Expect(backups).To(HaveLen(3))
	})

	It("should skip the backup when asked", func() {
		doc, err := store.Load()
		Expect(err).ToNot(HaveOccurred())
		Expect(store.Update(doc, map[string]any{"last_read_message_id": 1}, false)).To(Succeed())
		backups, err := store.Backups()
		Expect(err).ToNot(HaveOccurred())
		Expect(backups).To(BeEmpty())
	})

	It("should restore from a backup", func() {
		doc, err := store.Load()
		Expect(err).ToNot(HaveOccurred())
		Expect(store.Update(doc, map[string]any{"last_read_message_id": 50}, true)).To(Succeed())
		backups, err := store.Backups()
		Expect(err).ToNot(HaveOccurred())
		Expect(backups).ToNot(BeEmpty())

		restored, err := store.Restore(backups[0])
		Expect(err).ToNot(HaveOccurred())
		cursor, err := restored.Int("last_read_message_id", 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(cursor).To(Equal(10))
	})
})
