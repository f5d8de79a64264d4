package payment

// Callback status values reported by the processor.
const (
	CallbackStatusConfirmed = "confirmed"
	CallbackStatusFailed    = "failed"
)

// CallbackPayload is what the processor POSTs back (and what the
// payment_events queue carries internally).
type CallbackPayload struct {
	Reference   string  `json:"reference" binding:"required"`
	ProviderRef string  `json:"provider_ref"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status" binding:"required"`
}
