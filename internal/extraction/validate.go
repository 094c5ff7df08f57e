package extraction

import "fmt"

// ReceiptItem is a single validated line item.
type ReceiptItem struct {
	ItemName string  `json:"item_name"`
	ItemCost float64 `json:"item_cost"`
}

// ReceiptData contains the validated extraction result for a receipt.
type ReceiptData struct {
	Date       string        `json:"date"`
	Currency   string        `json:"currency"`
	VendorName string        `json:"vendor_name"`
	Items      []ReceiptItem `json:"receipt_items"`
	Tax        float64       `json:"tax"`
	Total      float64       `json:"total"`
}

var requiredFields = []string{"date", "currency", "vendor_name", "receipt_items", "tax", "total"}

// Validate checks an untrusted candidate object against the receipt schema
// and returns the typed result. Checks run in a fixed order and fail fast,
// each with a message naming the offending field. The candidate is the value
// produced by ExtractJSON, so JSON numbers arrive as float64; numeric strings
// like "1.50" do not pass the tax/total/item_cost checks. The date field is
// only required to be a string, its content is stored as extracted.
func Validate(candidate any) (*ReceiptData, error) {
	obj, ok := candidate.(map[string]any)
	if !ok {
		return nil, &FieldError{Reason: "empty or poorly-formed object"}
	}

	for _, field := range requiredFields {
		if _, ok := obj[field]; !ok {
			return nil, &FieldError{Field: field, Reason: fmt.Sprintf("missing field '%s'", field)}
		}
	}

	rawItems, ok := obj["receipt_items"].([]any)
	if !ok {
		return nil, &FieldError{Field: "receipt_items", Reason: "receipt_items must be an array"}
	}
	if len(rawItems) == 0 {
		return nil, &FieldError{Field: "receipt_items", Reason: "receipt_items array is empty"}
	}

	items := make([]ReceiptItem, 0, len(rawItems))
	for _, raw := range rawItems {
		item, ok := raw.(map[string]any)
		if !ok {
			return nil, &FieldError{Field: "receipt_items", Reason: "receipt items must be objects"}
		}
		name, ok := item["item_name"].(string)
		if !ok || name == "" {
			return nil, &FieldError{Field: "receipt_items", Reason: "receipt items must have item_name"}
		}
		cost, ok := item["item_cost"].(float64)
		if !ok {
			return nil, &FieldError{Field: "receipt_items", Reason: "receipt items must have numeric item_cost"}
		}
		items = append(items, ReceiptItem{ItemName: name, ItemCost: cost})
	}

	tax, taxOK := obj["tax"].(float64)
	total, totalOK := obj["total"].(float64)
	if !taxOK || !totalOK {
		return nil, &FieldError{Field: "tax", Reason: "tax and total must be numbers"}
	}

	currency, ok := obj["currency"].(string)
	if !ok || len(currency) != 3 {
		return nil, &FieldError{Field: "currency", Reason: "currency must be a 3-character code"}
	}

	vendorName, ok := obj["vendor_name"].(string)
	if !ok || vendorName == "" {
		return nil, &FieldError{Field: "vendor_name", Reason: "vendor_name must be a non-empty string"}
	}

	date, ok := obj["date"].(string)
	if !ok {
		return nil, &FieldError{Field: "date", Reason: "date must be a string"}
	}

	return &ReceiptData{
		Date:       date,
		Currency:   currency,
		VendorName: vendorName,
		Items:      items,
		Tax:        tax,
		Total:      total,
	}, nil
}
