package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/events"
	"github.com/carson-networks/bank-ledger/internal/logging"
	"github.com/carson-networks/bank-ledger/internal/operator/actions"
)

const maxDescriptionRunes = 255

var minTransferAmount = decimal.New(1, -2)

// TransferService moves funds between two accounts.
type TransferService struct {
	processor      IActionProcessor
	publisher      events.Publisher
	publishTimeout time.Duration
	log            *logrus.Logger
	clock          actions.Clock
}

func NewTransferService(processor IActionProcessor, publisher events.Publisher, log *logrus.Logger) *TransferService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TransferService{
		processor:      processor,
		publisher:      publisher,
		publishTimeout: events.DefaultPublishTimeout,
		log:            log,
		clock:          actions.SystemClock,
	}
}

// Transfer validates the request, runs it through the operator and returns
// the recorded transaction. Nothing is written unless every step succeeds.
func (s *TransferService) Transfer(ctx context.Context, req TransferRequest) (*Transaction, error) {
	if err := validateTransfer(req); err != nil {
		return nil, err
	}

	sourceID, err := parseID("account", req.SourceAccountID)
	if err != nil {
		return nil, err
	}
	destinationID, err := parseID("account", req.DestinationAccountID)
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	if logData != nil {
		logData.AddData("sourceAccountID", sourceID.String())
		logData.AddData("destinationAccountID", destinationID.String())
		logData.AddData("amount", req.Amount.StringFixed(2))
	}

	action := &actions.Transfer{
		SourceAccountID:      sourceID,
		DestinationAccountID: destinationID,
		Amount:               req.Amount,
		Description:          strings.TrimSpace(req.Description),
		Clock:                s.clock,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		if logData != nil {
			logData.AddData("transferState", string(action.State()))
		}
		return nil, err
	}

	recorded := transactionFromStorage(action.Result)
	if logData != nil {
		logData.AddData("transactionID", recorded.ID.String())
		logData.AddData("transferState", string(action.State()))
	}

	s.publish(ctx, recorded)
	return &recorded, nil
}

// publish is best effort; the transfer has already committed. It ignores the
// caller's cancellation but never waits longer than publishTimeout.
func (s *TransferService) publish(ctx context.Context, tx Transaction) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	event := events.TransferCommitted{
		TransactionID:            tx.ID.String(),
		SourceAccountID:          tx.SourceAccountID.String(),
		SourceAccountNumber:      tx.SourceAccountNumber,
		DestinationAccountID:     tx.DestinationAccountID.String(),
		DestinationAccountNumber: tx.DestinationAccountNumber,
		Amount:                   tx.Amount.StringFixed(2),
		Description:              tx.Description,
		CreatedAt:                tx.CreatedAt,
	}
	if err := s.publisher.PublishTransfer(ctx, event); err != nil && s.log != nil {
		s.log.WithError(err).WithField("transactionID", event.TransactionID).Warn("TransferService.Transfer.publishFailed")
	}
}

func validateTransfer(req TransferRequest) error {
	if strings.TrimSpace(req.SourceAccountID) == "" || strings.TrimSpace(req.DestinationAccountID) == "" {
		return bankerr.ErrMissingAccountID
	}
	if req.Amount.LessThan(minTransferAmount) || !req.Amount.Equal(req.Amount.Truncate(2)) {
		return bankerr.ErrInvalidAmount
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Description)) > maxDescriptionRunes {
		return bankerr.ErrDescriptionTooLong
	}
	return nil
}
