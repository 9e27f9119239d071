package dto

// DeleteRequestResponse returns the confirmation token of a pending delete.
type DeleteRequestResponse struct {
	ConfirmationToken string `json:"confirmation_token"`
}

// DeleteConfirmRequest completes a pending delete.
type DeleteConfirmRequest struct {
	ConfirmationToken string `json:"confirmation_token"`
}
