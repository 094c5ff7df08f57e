package receipt

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewLocalStorage", func() {
		It("should create a missing storage root", func() {
			nested := filepath.Join(tmpDir, "a", "b")
			_, err := NewLocalStorage(nested)
			Expect(err).NotTo(HaveOccurred())
			Expect(nested).To(BeADirectory())
		})

		It("should be safe to call on an existing root", func() {
			_, err := NewLocalStorage(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Save", func() {
		var (
			filename  string
			data      []byte
			reference string
			err       error
		)

		BeforeEach(func() {
			filename = "receipt.JPG"
			data = []byte("test file content")
		})

		JustBeforeEach(func() {
			reference, err = storage.Save(filename, data)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return an /uploads/ reference", func() {
				Expect(reference).To(HavePrefix(URLPrefix))
			})

			It("should preserve the file extension, lowercased", func() {
				Expect(reference).To(HaveSuffix(".jpg"))
			})

			It("should not reuse the original filename", func() {
				Expect(reference).NotTo(ContainSubstring("receipt"))
			})

			It("should write the file to disk", func() {
				name := strings.TrimPrefix(reference, URLPrefix)
				written, readErr := os.ReadFile(filepath.Join(tmpDir, name))
				Expect(readErr).NotTo(HaveOccurred())
				Expect(written).To(Equal(data))
			})
		})

		When("the same file is saved twice", func() {
			It("should generate distinct references", func() {
				other, otherErr := storage.Save(filename, data)
				Expect(otherErr).NotTo(HaveOccurred())
				Expect(other).NotTo(Equal(reference))
			})
		})
	})

	Describe("Get", func() {
		var (
			reference string
			data      []byte
			err       error
		)

		JustBeforeEach(func() {
			data, err = storage.Get(reference)
		})

		When("the file exists", func() {
			BeforeEach(func() {
				var saveErr error
				reference, saveErr = storage.Save("receipt.png", []byte("test file content"))
				Expect(saveErr).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the stored bytes", func() {
				Expect(string(data)).To(Equal("test file content"))
			})
		})

		When("the file does not exist", func() {
			BeforeEach(func() {
				reference = URLPrefix + "missing.png"
			})

			It("should return an error", func() {
				Expect(err).To(HaveOccurred())
			})
		})

		When("the reference tries to escape the storage root", func() {
			BeforeEach(func() {
				outside := filepath.Join(tmpDir, "..", "secret.txt")
				Expect(os.WriteFile(outside, []byte("secret"), 0644)).To(Succeed())
				reference = "../secret.txt"
			})

			It("should not read outside the root", func() {
				Expect(err).To(HaveOccurred())
			})
		})
	})
})
