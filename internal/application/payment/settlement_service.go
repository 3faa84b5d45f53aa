package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/domain/shared"
)

// SettlementService builds monthly seller statements from released
// escrow and walks them through finalization and payment.
type SettlementService struct {
	settlementRepo payment.SettlementRepository
	escrowRepo     payment.EscrowRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	settlementRepo payment.SettlementRepository,
	escrowRepo payment.EscrowRepository,
	logger *zap.Logger,
) *SettlementService {
	return &SettlementService{
		settlementRepo: settlementRepo,
		escrowRepo:     escrowRepo,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *SettlementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GenerateMonthly builds or regenerates draft statements for every
// seller with released unsettled escrow in the period. A failure for one
// seller is logged and the run continues. Returns the number generated.
func (s *SettlementService) GenerateMonthly(ctx context.Context, year int, month time.Month) (int, error) {
	from, to := periodWindow(year, month)
	sellerIDs, err := s.escrowRepo.SellersWithReleasedUnsettled(ctx, from, to)
	if err != nil {
		return 0, err
	}

	generated := 0
	for _, sellerID := range sellerIDs {
		if _, err := s.GenerateForSeller(ctx, sellerID, year, month); err != nil {
			s.logger.Error("Failed to generate settlement",
				zap.String("seller_id", sellerID.String()),
				zap.Int("year", year), zap.Int("month", int(month)),
				zap.Error(err))
			continue
		}
		generated++
	}

	s.logger.Info("Monthly settlement run finished",
		zap.Int("year", year), zap.Int("month", int(month)),
		zap.Int("sellers", len(sellerIDs)), zap.Int("generated", generated))
	return generated, nil
}

// GenerateForSeller builds a draft statement for one seller and period.
// An existing draft is superseded and regenerated from the current
// escrow figures; a finalized statement cannot be regenerated.
func (s *SettlementService) GenerateForSeller(ctx context.Context, sellerID uuid.UUID, year int, month time.Month) (*SettlementInfo, error) {
	from, to := periodWindow(year, month)
	entries, err := s.escrowRepo.FindReleasedUnsettled(ctx, sellerID, from, to)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, shared.NewDomainError("NO_ESCROW", "No released unsettled escrow in the period")
	}

	lines := make([]payment.SettlementLineInput, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		lines = append(lines, payment.SettlementLineInput{
			EscrowEntryID: entry.ID,
			OrderID:       entry.OrderID,
			Gross:         entry.GrossAmount,
			Refunded:      entry.RefundedAmount,
			Commission:    entry.CommissionAmount,
		})
	}

	current, err := s.settlementRepo.FindCurrent(ctx, sellerID, year, month)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	var settlement *payment.Settlement
	if current == nil {
		settlement, err = payment.NewSettlement(sellerID, year, month, lines)
		if err != nil {
			return nil, err
		}
	} else {
		settlement, err = current.Regenerate(lines)
		if err != nil {
			return nil, err
		}
		if err := s.settlementRepo.SaveWithLock(ctx, current); err != nil {
			return nil, err
		}
	}

	if err := s.settlementRepo.Save(ctx, settlement); err != nil {
		return nil, err
	}

	s.logger.Info("Settlement generated",
		zap.String("settlement_id", settlement.ID.String()),
		zap.String("seller_id", sellerID.String()),
		zap.String("period", settlement.Period()),
		zap.Int("statement_no", settlement.StatementNo),
		zap.String("net_payable", settlement.NetPayable.String()))
	return ToSettlementInfo(settlement), nil
}

// Finalize locks a draft statement and stamps its escrow entries as
// settled, taking them out of future settlement runs.
func (s *SettlementService) Finalize(ctx context.Context, settlementID uuid.UUID) (*SettlementInfo, error) {
	settlement, err := s.settlementRepo.FindByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if err := settlement.Finalize(); err != nil {
		return nil, err
	}
	if err := s.settlementRepo.SaveWithLock(ctx, settlement); err != nil {
		return nil, err
	}

	for _, line := range settlement.Lines {
		entry, err := s.escrowRepo.FindByID(ctx, line.EscrowEntryID)
		if err != nil {
			return nil, err
		}
		if err := entry.MarkSettled(settlement.ID); err != nil {
			return nil, err
		}
		if err := s.escrowRepo.SaveWithLock(ctx, entry); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Settlement finalized",
		zap.String("settlement_id", settlement.ID.String()),
		zap.String("period", settlement.Period()))

	s.publishEvents(ctx, settlement.GetDomainEvents())
	settlement.ClearDomainEvents()
	return ToSettlementInfo(settlement), nil
}

// MarkPaid links a finalized statement to the payout that covered it
func (s *SettlementService) MarkPaid(ctx context.Context, settlementID, payoutID uuid.UUID) error {
	settlement, err := s.settlementRepo.FindByID(ctx, settlementID)
	if err != nil {
		return err
	}
	if err := settlement.MarkPaid(payoutID); err != nil {
		return err
	}
	if err := s.settlementRepo.SaveWithLock(ctx, settlement); err != nil {
		return err
	}

	s.logger.Info("Settlement marked paid",
		zap.String("settlement_id", settlementID.String()),
		zap.String("payout_id", payoutID.String()))
	return nil
}

// GetSettlement finds a settlement visible to its seller or an admin
func (s *SettlementService) GetSettlement(ctx context.Context, settlementID uuid.UUID, sellerID *uuid.UUID) (*SettlementInfo, error) {
	settlement, err := s.settlementRepo.FindByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if sellerID != nil && settlement.SellerID != *sellerID {
		return nil, shared.ErrForbidden
	}
	return ToSettlementInfo(settlement), nil
}

// ListSellerSettlements lists a seller's statements with pagination
func (s *SettlementService) ListSellerSettlements(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (*shared.Paginated[*SettlementInfo], error) {
	settlements, err := s.settlementRepo.FindBySeller(ctx, sellerID, filter)
	if err != nil {
		return nil, err
	}
	return s.paginateSettlements(ctx, settlements, filter)
}

// ListSettlements lists all statements with pagination (admin)
func (s *SettlementService) ListSettlements(ctx context.Context, filter shared.Filter) (*shared.Paginated[*SettlementInfo], error) {
	settlements, err := s.settlementRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.paginateSettlements(ctx, settlements, filter)
}

func (s *SettlementService) paginateSettlements(ctx context.Context, settlements []payment.Settlement, filter shared.Filter) (*shared.Paginated[*SettlementInfo], error) {
	total, err := s.settlementRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	infos := make([]*SettlementInfo, 0, len(settlements))
	for i := range settlements {
		infos = append(infos, ToSettlementInfo(&settlements[i]))
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.PageSize), nil
}

func (s *SettlementService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range events {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
}

// periodWindow returns the half-open UTC window covering the month
func periodWindow(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
