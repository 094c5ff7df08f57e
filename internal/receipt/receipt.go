package receipt

// ReceiptItem is a single line item on a receipt. Items carry no identity of
// their own; they live and die with their parent receipt, in extraction order.
type ReceiptItem struct {
	ItemName string  `json:"item_name"`
	ItemCost float64 `json:"item_cost"`
}

// Receipt represents a persisted receipt extraction. Records are immutable
// once saved; there is no update path.
type Receipt struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"` // YYYY-MM-DD as extracted
	Currency     string        `json:"currency"`
	VendorName   string        `json:"vendor_name"`
	ReceiptItems []ReceiptItem `json:"receipt_items"`
	Tax          float64       `json:"tax"`
	Total        float64       `json:"total"`
	ImageURL     string        `json:"image_url"` // relative /uploads/ path
}
