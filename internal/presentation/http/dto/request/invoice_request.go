package request

// UpdateInvoiceSettingsRequest changes the invoice header and tax settings.
// tax_rate is a percentage string such as "16" or "7.5".
type UpdateInvoiceSettingsRequest struct {
	StoreName        *string `json:"store_name" binding:"omitempty,max=255"`
	Address          *string `json:"address" binding:"omitempty,max=500"`
	Phone            *string `json:"phone" binding:"omitempty,max=50"`
	Email            *string `json:"email" binding:"omitempty,email"`
	TaxID            *string `json:"tax_id" binding:"omitempty,max=100"`
	TaxRate          *string `json:"tax_rate"`
	PriceIncludesTax *bool   `json:"price_includes_tax"`
	InvoicePrefix    *string `json:"invoice_prefix"`
	FooterNote       *string `json:"footer_note" binding:"omitempty,max=500"`
	Currency         *string `json:"currency"`
}
