package extraction

import (
	"context"
	"errors"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("OpenAI", func() {
	var (
		apiServer *ghttp.Server
		client    *OpenAI
		rawText   string
		err       error
	)

	BeforeEach(func() {
		apiServer = ghttp.NewServer()
		var newErr error
		client, newErr = NewOpenAI(apiServer.URL(), "test-key", "gpt-4o", 5*time.Second)
		Expect(newErr).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		apiServer.Close()
	})

	JustBeforeEach(func() {
		rawText, err = client.Extract(context.Background(), []byte("fake image data"), "image/png")
	})

	When("the model responds with content", func() {
		BeforeEach(func() {
			apiServer.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/chat/completions"),
				ghttp.VerifyHeaderKV("Authorization", "Bearer test-key"),
				ghttp.VerifyJSONRepresenting(chatRequest{
					Model:     "gpt-4o",
					MaxTokens: 1000,
					Messages: []chatMessage{
						{
							Role: "user",
							Content: []contentPart{
								{Type: "text", Text: extractionPrompt},
								{Type: "image_url", ImageURL: &imageURL{
									URL: "data:image/png;base64,ZmFrZSBpbWFnZSBkYXRh",
								}},
							},
						},
					},
				}),
				ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
					"choices": []map[string]any{
						{"message": map[string]any{"content": `{"vendor_name": "Test Store"}`}},
					},
				}),
			))
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the raw text of the first choice", func() {
			Expect(rawText).To(Equal(`{"vendor_name": "Test Store"}`))
		})
	})

	When("the API responds with a 500", func() {
		BeforeEach(func() {
			apiServer.AppendHandlers(
				ghttp.RespondWith(http.StatusInternalServerError, "boom"),
			)
		})

		It("should classify the failure as upstream", func() {
			var invErr *InvocationError
			Expect(errors.As(err, &invErr)).To(BeTrue())
			Expect(invErr.Upstream).To(BeTrue())
		})

		It("should mark the message as a model server error", func() {
			Expect(err.Error()).To(ContainSubstring("AI model returned a server error"))
		})
	})

	When("the API responds with a 503", func() {
		BeforeEach(func() {
			apiServer.AppendHandlers(
				ghttp.RespondWith(http.StatusServiceUnavailable, "unavailable"),
			)
		})

		It("should classify the failure as upstream", func() {
			var invErr *InvocationError
			Expect(errors.As(err, &invErr)).To(BeTrue())
			Expect(invErr.Upstream).To(BeTrue())
		})
	})

	When("the API responds with a 401", func() {
		BeforeEach(func() {
			apiServer.AppendHandlers(
				ghttp.RespondWith(http.StatusUnauthorized, "bad key"),
			)
		})

		It("should leave the failure unclassified", func() {
			var invErr *InvocationError
			Expect(errors.As(err, &invErr)).To(BeTrue())
			Expect(invErr.Upstream).To(BeFalse())
		})

		It("should preserve the underlying message", func() {
			Expect(err.Error()).To(ContainSubstring("bad key"))
		})
	})

	When("the reply carries no choices", func() {
		BeforeEach(func() {
			apiServer.AppendHandlers(
				ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{"choices": []any{}}),
			)
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return empty text", func() {
			Expect(rawText).To(BeEmpty())
		})
	})
})

var _ = Describe("NewOpenAI", func() {
	When("the api key is missing", func() {
		It("returns an error", func() {
			_, err := NewOpenAI("", "", "", 0)
			Expect(err).To(HaveOccurred())
		})
	})
})
