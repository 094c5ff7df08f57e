package extraction

import "context"

// Extractor defines the interface for vision model backends. Extract sends a
// receipt image to the model and returns its raw text response; the caller is
// responsible for parsing and validating that text.
type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) (string, error)
	// Close closes the backend and releases resources
	Close() error
}

// extractionPrompt is the shared prompt used by all model backends. The model
// must answer with a bare JSON object carrying exactly the six receipt fields.
const extractionPrompt = `Extract the following information from this receipt image and return it as a JSON object:
- date: The date of the receipt (format: YYYY-MM-DD)
- currency: The 3-character currency code (e.g., USD, EUR, SGD)
- vendor_name: The name of the vendor/store
- receipt_items: An array of objects, each with "item_name" and "item_cost" (as a number)
- tax: The total GST/tax amount for the entire receipt (as a number)
- total: The total amount of the receipt (as a number)

Return ONLY a valid JSON object with no additional text or markdown formatting.`

// maxResponseTokens caps the model's output length so a single extraction has
// a bounded cost and latency.
const maxResponseTokens = 1000
