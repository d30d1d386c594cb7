package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LucasExpRocha/ToolsChallenge/internal/models"
)

var (
	amountPattern = regexp.MustCompile(`^\d+\.\d{2}$`)
	cardPattern   = regexp.MustCompile(`^(?:[0-9]{16}|[0-9]{4}\*{8,9}[0-9]{4})$`)

	allowedPaymentTypes = map[string]bool{
		models.PaymentTypeCash:              true,
		models.PaymentTypeStoreInstallment:  true,
		models.PaymentTypeIssuerInstallment: true,
	}
)

// ValidateRequest checks required fields, formats and business constraints on
// an incoming transaction. It short-circuits on the first failure and returns
// its message; an empty string means the request is valid.
func ValidateRequest(req *models.TransactionRequest) string {
	if req == nil {
		return "transaction must not be null"
	}
	if req.ID == "" {
		return "missing transaction id"
	}
	if req.Card == "" {
		return "missing card number"
	}
	if !cardPattern.MatchString(req.Card) {
		return "invalid card number"
	}
	if req.Description == nil {
		return "missing transaction details"
	}
	if req.Description.Amount == "" {
		return "missing amount"
	}
	if req.Description.DateTime == "" {
		return "missing date/time"
	}
	if req.Description.Merchant == "" {
		return "missing merchant"
	}
	if req.PaymentMethod == nil {
		return "missing payment method"
	}
	if req.PaymentMethod.Installments == "" {
		return "missing installments"
	}
	if req.PaymentMethod.Type == "" {
		return "missing payment type"
	}

	if _, err := time.Parse(models.DateTimeLayout, req.Description.DateTime); err != nil {
		return "invalid date/time"
	}

	if !amountPattern.MatchString(req.Description.Amount) {
		return "invalid amount"
	}
	amount, err := decimal.NewFromString(req.Description.Amount)
	if err != nil || !amount.IsPositive() {
		return "invalid amount"
	}

	installments, err := strconv.Atoi(req.PaymentMethod.Installments)
	if err != nil || installments <= 0 {
		return "invalid installments"
	}

	paymentType := strings.ToUpper(req.PaymentMethod.Type)
	if !allowedPaymentTypes[paymentType] {
		return "invalid payment type"
	}
	// A cash payment settles in a single installment.
	if paymentType == models.PaymentTypeCash && installments != 1 {
		return "invalid installments for payment type"
	}

	return ""
}
