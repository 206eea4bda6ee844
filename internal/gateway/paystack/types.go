package paystack

// Webhook event names dispatched by the reconciliation handler.
const (
	EventChargeSuccess          = "charge.success"
	EventTransferSuccess        = "transfer.success"
	EventTransferFailed         = "transfer.failed"
	EventTransferReversed       = "transfer.reversed"
	EventDVAAssignSuccess       = "dedicatedaccount.assign.success"
	EventCustomerIdentification = "customeridentification.success"
	EventRefundProcessed        = "refund.processed"
)

// Response is the envelope Paystack wraps every payload in.
type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type InitializeTransactionRequest struct {
	Email       string                 `json:"email"`
	Amount      int64                  `json:"amount"` // kobo
	Reference   string                 `json:"reference"`
	CallbackURL string                 `json:"callback_url,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type InitializeTransactionData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerifyTransactionData struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Customer  struct {
		Email        string `json:"email"`
		CustomerCode string `json:"customer_code"`
	} `json:"customer"`
}

type ResolveAccountData struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

type TransferRecipientRequest struct {
	Type          string `json:"type"` // always "nuban"
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	Currency      string `json:"currency"`
}

type TransferRecipientData struct {
	RecipientCode string `json:"recipient_code"`
	Active        bool   `json:"active"`
}

type TransferRequest struct {
	Source    string `json:"source"` // always "balance"
	Amount    int64  `json:"amount"` // kobo
	Recipient string `json:"recipient"`
	Reason    string `json:"reason,omitempty"`
	Reference string `json:"reference"`
}

type TransferData struct {
	TransferCode string `json:"transfer_code"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Reference    string `json:"reference"`
}

type CreateCustomerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
}

type CustomerData struct {
	CustomerCode string `json:"customer_code"`
	Email        string `json:"email"`
}

type DedicatedAccountRequest struct {
	Customer      string `json:"customer"`
	PreferredBank string `json:"preferred_bank"`
}

type DedicatedAccountData struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	Bank          struct {
		Name string `json:"name"`
	} `json:"bank"`
	Customer struct {
		CustomerCode string `json:"customer_code"`
	} `json:"customer"`
}

// WebhookEvent is the raw webhook envelope. Data is kept as loose JSON
// because every event type carries a different payload shape.
type WebhookEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// ErrorResponse represents a non-2xx reply from the Paystack API.
type ErrorResponse struct {
	StatusCode int
	Status     bool   `json:"status"`
	Message    string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	if e.Message != "" {
		return "paystack api error: " + e.Message
	}
	return "unknown paystack api error"
}
