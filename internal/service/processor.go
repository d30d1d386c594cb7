package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/LucasExpRocha/ToolsChallenge/internal/interfaces"
	"github.com/LucasExpRocha/ToolsChallenge/internal/models"
	"github.com/LucasExpRocha/ToolsChallenge/internal/telemetry"
)

const lockTTL = 30 * time.Second

var (
	// ErrBlankID rejects reversal requests without an id.
	ErrBlankID = errors.New("missing transaction id")
	// ErrTransactionNotFound is returned when the reversal target does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrStatusNotRefundable is returned when the stored status is not
	// AUTHORIZED. The record is left untouched.
	ErrStatusNotRefundable = errors.New("current status does not allow refund")
)

// Processor runs the authorization and reversal flows against the transaction
// store. The locker and event writer are optional; pass nil to run without
// Redis or Kafka.
type Processor struct {
	repo   interfaces.TransactionRepository
	refs   *ReferenceSource
	locker Locker
	events *kafka.Writer
}

func NewProcessor(repo interfaces.TransactionRepository, refs *ReferenceSource, locker Locker, events *kafka.Writer) *Processor {
	return &Processor{
		repo:   repo,
		refs:   refs,
		locker: locker,
		events: events,
	}
}

// Authorize validates, sanitizes and persists a transaction, returning an
// AUTHORIZED response with freshly generated reference codes or a DENIED
// response carrying the reason. It never returns an error: every internal
// failure is folded into a well-formed denial.
func (p *Processor) Authorize(ctx context.Context, req *models.TransactionRequest) *models.TransactionResponse {
	response := echoResponse(req)

	if msg := ValidateRequest(req); msg != "" {
		telemetry.Logger.Warn("payment denied",
			zap.String("external_id", requestID(req)),
			zap.String("reason", msg),
		)
		return denied(response, msg)
	}

	if p.locker != nil {
		key := "payment_lock:" + req.ID
		ok, err := p.locker.Acquire(ctx, key, lockTTL)
		if err != nil {
			// The unique constraint still protects the insert.
			telemetry.Logger.Warn("lock acquisition failed", zap.String("external_id", req.ID), zap.Error(err))
		} else if !ok {
			return denied(response, duplicateMessage(req.ID))
		} else {
			defer p.locker.Release(ctx, key)
		}
	}

	_, err := p.repo.FindByExternalID(ctx, req.ID)
	if err == nil {
		telemetry.Logger.Warn("payment denied", zap.String("external_id", req.ID), zap.String("reason", "duplicate"))
		return denied(response, duplicateMessage(req.ID))
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		telemetry.Logger.Error("idempotency lookup failed", zap.String("external_id", req.ID), zap.Error(err))
		return denied(response, "unexpected error")
	}

	record, err := p.buildTransaction(req)
	if err != nil {
		telemetry.Logger.Error("building transaction failed", zap.String("external_id", req.ID), zap.Error(err))
		return denied(response, "unexpected error")
	}

	if err := p.repo.Insert(ctx, record); err != nil {
		if errors.Is(err, interfaces.ErrDuplicateID) {
			// Lost the race to another in-flight request with the same id.
			return denied(response, duplicateMessage(req.ID))
		}
		telemetry.Logger.Error("transaction insert failed", zap.String("external_id", req.ID), zap.Error(err))
		return denied(response, "could not record transaction")
	}

	response.Description.SettlementReference = record.SettlementReference
	response.Description.AuthorizationCode = record.AuthorizationCode
	response.Description.Status = models.StatusAuthorized

	p.publish(ctx, record.ExternalID, models.StatusAuthorized)
	telemetry.Logger.Info("payment authorized",
		zap.String("external_id", record.ExternalID),
		zap.String("settlement_reference", record.SettlementReference),
		zap.String("authorization_code", record.AuthorizationCode),
	)
	return response
}

// Refund reverses a previously authorized transaction. The only legal
// transition is AUTHORIZED -> CANCELED; anything else returns a typed
// validation error without mutating the record.
func (p *Processor) Refund(ctx context.Context, externalID string) (*models.TransactionResponse, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, ErrBlankID
	}

	record, err := p.repo.FindByExternalID(ctx, externalID)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("refund lookup: %w", err)
	}

	if record.Status != models.StatusAuthorized {
		telemetry.Logger.Warn("refund rejected",
			zap.String("external_id", externalID),
			zap.String("current_status", string(record.Status)),
		)
		return nil, ErrStatusNotRefundable
	}

	now := time.Now()
	record.Status = models.StatusCanceled
	record.CanceledAt = &now
	if err := p.repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("refund update: %w", err)
	}

	response := StoredResponse(record)
	response.Description.DateTime = now.Format(models.DateTimeLayout)

	p.publish(ctx, externalID, models.StatusCanceled)
	telemetry.Logger.Info("payment canceled",
		zap.String("external_id", externalID),
		zap.Time("canceled_at", now),
	)
	return response, nil
}

// FindOne looks a transaction up by external id for the query endpoint.
func (p *Processor) FindOne(ctx context.Context, externalID string) (*models.TransactionResponse, error) {
	record, err := p.repo.FindByExternalID(ctx, externalID)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("transaction lookup: %w", err)
	}
	return StoredResponse(record), nil
}

// List returns a page of stored transactions, newest first.
func (p *Processor) List(ctx context.Context, page, rowsPerPage int) ([]*models.TransactionResponse, error) {
	records, err := p.repo.List(ctx, page, rowsPerPage)
	if err != nil {
		return nil, fmt.Errorf("transaction list: %w", err)
	}
	result := make([]*models.TransactionResponse, 0, len(records))
	for _, record := range records {
		result = append(result, StoredResponse(record))
	}
	return result, nil
}

// buildTransaction normalizes the already validated request and attaches the
// generated reference codes.
func (p *Processor) buildTransaction(req *models.TransactionRequest) (*models.Transaction, error) {
	amount, err := decimal.NewFromString(req.Description.Amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	occurredAt, err := time.Parse(models.DateTimeLayout, req.Description.DateTime)
	if err != nil {
		return nil, fmt.Errorf("parse date/time: %w", err)
	}
	installments, err := strconv.Atoi(req.PaymentMethod.Installments)
	if err != nil {
		return nil, fmt.Errorf("parse installments: %w", err)
	}
	settlementReference, err := p.refs.SettlementReference()
	if err != nil {
		return nil, err
	}
	authorizationCode, err := p.refs.AuthorizationCode()
	if err != nil {
		return nil, err
	}

	return &models.Transaction{
		ExternalID:          req.ID,
		Card:                req.Card,
		PaymentType:         strings.ToUpper(req.PaymentMethod.Type),
		Installments:        installments,
		Amount:              amount,
		OccurredAt:          occurredAt,
		Merchant:            Sanitize(req.Description.Merchant),
		SettlementReference: settlementReference,
		AuthorizationCode:   authorizationCode,
		Status:              models.StatusAuthorized,
	}, nil
}

// StoredResponse maps a stored transaction to its response shape, masking the
// card and re-sanitizing the merchant on the way out.
func StoredResponse(tx *models.Transaction) *models.TransactionResponse {
	return &models.TransactionResponse{
		Card: models.MaskCard(tx.Card),
		ID:   tx.ExternalID,
		Description: &models.DescriptionResponse{
			Amount:              tx.Amount.StringFixed(2),
			DateTime:            tx.OccurredAt.Format(models.DateTimeLayout),
			Merchant:            Sanitize(tx.Merchant),
			SettlementReference: tx.SettlementReference,
			AuthorizationCode:   tx.AuthorizationCode,
			Status:              tx.Status,
		},
		PaymentMethod: &models.PaymentMethod{
			Type:         tx.PaymentType,
			Installments: strconv.Itoa(tx.Installments),
		},
	}
}

// echoResponse builds the response skeleton up front so denials still echo
// the submitted fields, with the merchant already sanitized.
func echoResponse(req *models.TransactionRequest) *models.TransactionResponse {
	response := &models.TransactionResponse{
		Description: &models.DescriptionResponse{},
	}
	if req == nil {
		return response
	}
	response.Card = req.Card
	response.ID = req.ID
	if req.Description != nil {
		response.Description.Amount = req.Description.Amount
		response.Description.DateTime = req.Description.DateTime
		response.Description.Merchant = Sanitize(req.Description.Merchant)
	}
	response.PaymentMethod = req.PaymentMethod
	return response
}

func denied(response *models.TransactionResponse, message string) *models.TransactionResponse {
	if response.Description == nil {
		response.Description = &models.DescriptionResponse{}
	}
	response.Description.Status = models.StatusDenied
	response.Description.Message = message
	return response
}

func duplicateMessage(externalID string) string {
	return fmt.Sprintf("transaction already processed for id=%s", externalID)
}

func requestID(req *models.TransactionRequest) string {
	if req == nil {
		return ""
	}
	return req.ID
}

// publish emits a state-change event; failures are logged and never surface
// to the caller.
func (p *Processor) publish(ctx context.Context, externalID string, status models.Status) {
	if p.events == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"externalId": externalID,
		"status":     status,
		"timestamp":  time.Now(),
	})
	if err != nil {
		return
	}
	if err := p.events.WriteMessages(ctx, kafka.Message{
		Key:   []byte(externalID),
		Value: payload,
	}); err != nil {
		telemetry.Logger.Warn("event publish failed", zap.String("external_id", externalID), zap.Error(err))
	}
}
