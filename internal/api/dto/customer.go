package dto

// CustomerResponse is the caller's Stripe customer
type CustomerResponse struct {
	CustomerID string `json:"customerId"`
	Email      string `json:"email"`
	Created    bool   `json:"created"`
}
