package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusAuthorized Status = "AUTHORIZED"
	StatusDenied     Status = "DENIED"
	StatusCanceled   Status = "CANCELED"
)

// Payment types accepted by the gateway. AVISTA is a single-installment
// (cash-equivalent) payment; the PARCELADO variants are store- and
// issuer-financed installment plans.
const (
	PaymentTypeCash              = "AVISTA"
	PaymentTypeStoreInstallment  = "PARCELADO LOJA"
	PaymentTypeIssuerInstallment = "PARCELADO EMISSOR"
)

// DateTimeLayout is the wire format for transaction timestamps.
const DateTimeLayout = "02/01/2006 15:04:05"

type TransactionRequest struct {
	Card          string         `json:"card"`
	ID            string         `json:"id"`
	Description   *Description   `json:"description"`
	PaymentMethod *PaymentMethod `json:"paymentMethod"`
}

type Description struct {
	Amount   string `json:"amount"`
	DateTime string `json:"dateTime"`
	Merchant string `json:"merchant"`
}

type PaymentMethod struct {
	Type         string `json:"type"`
	Installments string `json:"installments"`
}

type TransactionResponse struct {
	Card          string               `json:"card"`
	ID            string               `json:"id"`
	Description   *DescriptionResponse `json:"description"`
	PaymentMethod *PaymentMethod       `json:"paymentMethod"`
}

type DescriptionResponse struct {
	Amount              string `json:"amount,omitempty"`
	DateTime            string `json:"dateTime,omitempty"`
	Merchant            string `json:"merchant,omitempty"`
	SettlementReference string `json:"settlementReference,omitempty"`
	AuthorizationCode   string `json:"authorizationCode,omitempty"`
	Status              Status `json:"status,omitempty"`
	// Message carries the denial reason on non-authorized responses.
	Message string `json:"message,omitempty"`
}

// RefundResponse wraps the transaction state after a reversal.
type RefundResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
}

type QueryResponse struct {
	Data        []*TransactionResponse `json:"data"`
	RowsPerPage int                    `json:"rowsPerPage"`
	Page        int                    `json:"page"`
}

// Transaction is the persisted record. ExternalID is the caller-supplied
// idempotency key and is unique across the store. Status only ever moves
// AUTHORIZED -> CANCELED.
type Transaction struct {
	RowID               int64
	ExternalID          string
	Card                string
	PaymentType         string
	Installments        int
	Amount              decimal.Decimal
	OccurredAt          time.Time
	Merchant            string
	SettlementReference string
	AuthorizationCode   string
	Status              Status
	CanceledAt          *time.Time
}
