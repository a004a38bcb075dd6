package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgie/internal/money"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
)

type transactionResponse struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             string     `json:"userId"`
	CategoryID         *uuid.UUID `json:"categoryId"`
	Amount             string     `json:"amount"`
	Type               string     `json:"type"`
	Description        string     `json:"description"`
	Notes              string     `json:"notes"`
	Tags               []string   `json:"tags"`
	Date               time.Time  `json:"date"`
	IsRecurring        bool       `json:"isRecurring"`
	RecurringFrequency *string    `json:"recurringFrequency"`
	RecurringEndDate   *time.Time `json:"recurringEndDate"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:               tx.ID,
		UserID:           tx.UserID,
		CategoryID:       tx.CategoryID,
		Amount:           money.Format(tx.Amount),
		Type:             string(tx.Type),
		Description:      tx.Description,
		Notes:            tx.Notes,
		Tags:             tx.Tags,
		Date:             tx.Date,
		IsRecurring:      tx.IsRecurring,
		RecurringEndDate: tx.RecurringEndDate,
		CreatedAt:        tx.CreatedAt,
		UpdatedAt:        tx.UpdatedAt,
	}

	if resp.Tags == nil {
		resp.Tags = []string{}
	}

	if tx.RecurringFrequency != nil {
		resp.RecurringFrequency = new(string(*tx.RecurringFrequency))
	}

	return resp
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

type skippedResponse struct {
	Date        time.Time `json:"date"`
	Amount      string    `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	ExistingID  uuid.UUID `json:"existingId"`
}

type importResponse struct {
	Profile  string                `json:"profile"`
	Imported []transactionResponse `json:"imported"`
	Skipped  []skippedResponse     `json:"skipped"`
}

func toImportResponse(profile string, res *transaction.ImportResult) importResponse {
	resp := importResponse{
		Profile:  profile,
		Imported: toResponseList(res.Imported),
		Skipped:  make([]skippedResponse, len(res.Skipped)),
	}

	for i, d := range res.Skipped {
		resp.Skipped[i] = skippedResponse{
			Date:        d.Incoming.Date,
			Amount:      money.Format(d.Incoming.Amount),
			Type:        string(d.Incoming.Type),
			Description: d.Incoming.Description,
			ExistingID:  d.Existing.ID,
		}
	}

	return resp
}
