package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/domain/seller"
	"github.com/mercato/backend/internal/domain/shared"
)

// payoutBatchPageSize pages through approved sellers during a batch run
const payoutBatchPageSize = 200

// PayoutService schedules bank transfers of released seller balances and
// drives them through the payout rail with retries.
type PayoutService struct {
	payoutRepo     payment.PayoutRepository
	escrowRepo     payment.EscrowRepository
	profileRepo    seller.SellerProfileRepository
	rail           payment.PayoutRail
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPayoutService creates a new payout service
func NewPayoutService(
	payoutRepo payment.PayoutRepository,
	escrowRepo payment.EscrowRepository,
	profileRepo seller.SellerProfileRepository,
	rail payment.PayoutRail,
	logger *zap.Logger,
) *PayoutService {
	return &PayoutService{
		payoutRepo:  payoutRepo,
		escrowRepo:  escrowRepo,
		profileRepo: profileRepo,
		rail:        rail,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *PayoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ScheduleBatch creates one payout per approved seller covering their
// payable escrow. The bank reference is snapshotted from the profile at
// scheduling time. Sellers with nothing payable are skipped; a failure
// for one seller is logged and the batch continues.
func (s *PayoutService) ScheduleBatch(ctx context.Context, scheduledFor time.Time) (*BatchResult, error) {
	batchID := uuid.New()
	result := &BatchResult{BatchID: batchID, Total: decimal.Zero}

	for page := 1; ; page++ {
		profiles, err := s.profileRepo.FindByStatus(ctx, seller.ProfileStatusApproved,
			shared.Filter{Page: page, PageSize: payoutBatchPageSize})
		if err != nil {
			return nil, err
		}
		if len(profiles) == 0 {
			break
		}

		for i := range profiles {
			profile := &profiles[i]
			if !profile.CanReceivePayouts() {
				continue
			}
			payout, err := s.scheduleForSeller(ctx, profile, batchID, scheduledFor)
			if err != nil {
				s.logger.Error("Failed to schedule payout",
					zap.String("seller_id", profile.UserID.String()), zap.Error(err))
				continue
			}
			if payout != nil {
				result.Scheduled++
				result.Total = result.Total.Add(payout.Amount)
			}
		}

		if len(profiles) < payoutBatchPageSize {
			break
		}
	}

	s.logger.Info("Payout batch scheduled",
		zap.String("batch_id", batchID.String()),
		zap.Int("payouts", result.Scheduled),
		zap.String("total", result.Total.String()))
	return result, nil
}

func (s *PayoutService) scheduleForSeller(ctx context.Context, profile *seller.SellerProfile, batchID uuid.UUID, scheduledFor time.Time) (*payment.Payout, error) {
	entries, err := s.escrowRepo.FindPayable(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	lines := make([]payment.PayoutLineInput, 0, len(entries))
	for i := range entries {
		lines = append(lines, payment.PayoutLineInput{
			EscrowEntryID: entries[i].ID,
			NetAmount:     entries[i].NetAmount,
		})
	}

	payout, err := payment.NewPayout(profile.UserID, batchID, profile.BankRef, scheduledFor, lines)
	if err != nil {
		return nil, err
	}
	if err := s.payoutRepo.Save(ctx, payout); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, payout.GetDomainEvents())
	payout.ClearDomainEvents()
	return payout, nil
}

// ProcessDue submits due payouts to the payout rail. A rejected transfer
// records the failure and backs off before the next attempt; the payout
// fails hard once the attempt cap is reached. Returns the number paid.
func (s *PayoutService) ProcessDue(ctx context.Context, at time.Time, limit int) (int, error) {
	due, err := s.payoutRepo.FindDue(ctx, at, limit)
	if err != nil {
		return 0, err
	}

	paid := 0
	for i := range due {
		payout := &due[i]
		if err := s.processOne(ctx, payout); err != nil {
			s.logger.Error("Failed to process payout",
				zap.String("payout_id", payout.ID.String()), zap.Error(err))
			continue
		}
		if payout.Status == payment.PayoutStatusPaid {
			paid++
		}
	}
	return paid, nil
}

func (s *PayoutService) processOne(ctx context.Context, payout *payment.Payout) error {
	if err := payout.StartProcessing(); err != nil {
		return err
	}
	if err := s.payoutRepo.SaveWithLock(ctx, payout); err != nil {
		return err
	}

	resp, err := s.rail.SubmitTransfer(ctx, payment.TransferRequest{
		PayoutID: payout.ID.String(),
		BankRef:  payout.BankRef,
		Amount:   payout.Amount,
		Currency: "USD",
	})
	if err != nil {
		if failErr := payout.RecordFailure(err.Error()); failErr != nil {
			return failErr
		}
		if saveErr := s.payoutRepo.SaveWithLock(ctx, payout); saveErr != nil {
			return saveErr
		}
		s.logger.Warn("Payout transfer rejected",
			zap.String("payout_id", payout.ID.String()),
			zap.Int("attempt", payout.AttemptCount),
			zap.String("status", payout.Status.String()),
			zap.Error(err))
		s.publishEvents(ctx, payout.GetDomainEvents())
		payout.ClearDomainEvents()
		return nil
	}

	if err := payout.MarkPaid(resp.TransferRef); err != nil {
		return err
	}
	if err := s.payoutRepo.SaveWithLock(ctx, payout); err != nil {
		return err
	}

	s.logger.Info("Payout paid",
		zap.String("payout_id", payout.ID.String()),
		zap.String("seller_id", payout.SellerID.String()),
		zap.String("amount", payout.Amount.String()))

	s.publishEvents(ctx, payout.GetDomainEvents())
	payout.ClearDomainEvents()
	return nil
}

// GetPayout finds a payout visible to its seller or an admin
func (s *PayoutService) GetPayout(ctx context.Context, payoutID uuid.UUID, sellerID *uuid.UUID) (*PayoutInfo, error) {
	payout, err := s.payoutRepo.FindByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if sellerID != nil && payout.SellerID != *sellerID {
		return nil, shared.ErrForbidden
	}
	return ToPayoutInfo(payout), nil
}

// ListSellerPayouts lists a seller's payouts with pagination
func (s *PayoutService) ListSellerPayouts(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]*PayoutInfo, error) {
	payouts, err := s.payoutRepo.FindBySeller(ctx, sellerID, filter)
	if err != nil {
		return nil, err
	}
	infos := make([]*PayoutInfo, 0, len(payouts))
	for i := range payouts {
		infos = append(infos, ToPayoutInfo(&payouts[i]))
	}
	return infos, nil
}

// ListBatch returns the payouts scheduled in one batch run
func (s *PayoutService) ListBatch(ctx context.Context, batchID uuid.UUID) ([]*PayoutInfo, error) {
	payouts, err := s.payoutRepo.FindByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	infos := make([]*PayoutInfo, 0, len(payouts))
	for i := range payouts {
		infos = append(infos, ToPayoutInfo(&payouts[i]))
	}
	return infos, nil
}

func (s *PayoutService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
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
