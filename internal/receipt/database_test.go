package receipt

import (
	"encoding/json"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.etcd.io/bbolt"
)

var _ = Describe("BoltDB", func() {
	var (
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	newReceipt := func() *Receipt {
		return &Receipt{
			ID:         "test-id",
			Date:       "2024-01-15",
			Currency:   "USD",
			VendorName: "Test Store",
			ReceiptItems: []ReceiptItem{
				{ItemName: "Item 1", ItemCost: 10.5},
				{ItemName: "Item 2", ItemCost: 5.25},
			},
			Tax:      1.5,
			Total:    17.25,
			ImageURL: "/uploads/test.jpg",
		}
	}

	Describe("SaveReceipt", func() {
		It("should persist the receipt", func() {
			Expect(db.SaveReceipt(newReceipt())).To(Succeed())
		})

		It("should store tax and total as fixed two-decimal strings", func() {
			Expect(db.SaveReceipt(newReceipt())).To(Succeed())
			Expect(db.Close()).To(Succeed())

			raw, err := bbolt.Open(dbPath, 0600, nil)
			Expect(err).NotTo(HaveOccurred())
			defer raw.Close()
			db = nil

			err = raw.View(func(tx *bbolt.Tx) error {
				data := tx.Bucket([]byte(bucketName)).Get([]byte("test-id"))
				Expect(data).NotTo(BeNil())
				var onDisk map[string]any
				Expect(json.Unmarshal(data, &onDisk)).To(Succeed())
				Expect(onDisk).To(HaveKeyWithValue("tax", "1.50"))
				Expect(onDisk).To(HaveKeyWithValue("total", "17.25"))
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("GetReceipt", func() {
		When("the receipt exists", func() {
			BeforeEach(func() {
				Expect(db.SaveReceipt(newReceipt())).To(Succeed())
			})

			It("should round-trip all fields", func() {
				got, err := db.GetReceipt("test-id")
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(newReceipt()))
			})

			It("should coerce stored amounts back to numbers", func() {
				got, err := db.GetReceipt("test-id")
				Expect(err).NotTo(HaveOccurred())
				Expect(got.Tax).To(Equal(1.5))
				Expect(got.Total).To(Equal(17.25))
			})
		})

		When("the receipt does not exist", func() {
			It("should return a not-found error", func() {
				_, err := db.GetReceipt("missing")
				Expect(err).To(MatchError(ContainSubstring("not found")))
			})
		})
	})

	Describe("ListReceipts", func() {
		When("no receipts exist", func() {
			It("should return an empty slice", func() {
				receipts, err := db.ListReceipts()
				Expect(err).NotTo(HaveOccurred())
				Expect(receipts).To(BeEmpty())
				Expect(receipts).NotTo(BeNil())
			})
		})

		When("receipts exist", func() {
			BeforeEach(func() {
				first := newReceipt()
				second := newReceipt()
				second.ID = "other-id"
				Expect(db.SaveReceipt(first)).To(Succeed())
				Expect(db.SaveReceipt(second)).To(Succeed())
			})

			It("should return all of them", func() {
				receipts, err := db.ListReceipts()
				Expect(err).NotTo(HaveOccurred())
				Expect(receipts).To(HaveLen(2))
			})
		})
	})
})
