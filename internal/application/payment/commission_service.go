package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/domain/shared"
)

// CommissionService manages the commission rule book
type CommissionService struct {
	ruleRepo payment.CommissionRuleRepository
	logger   *zap.Logger
}

// NewCommissionService creates a new commission service
func NewCommissionService(ruleRepo payment.CommissionRuleRepository, logger *zap.Logger) *CommissionService {
	return &CommissionService{
		ruleRepo: ruleRepo,
		logger:   logger,
	}
}

// CreateRule adds a commission rule. ActiveFrom defaults to now; new
// rules take effect for captures after that moment, never retroactively.
func (s *CommissionService) CreateRule(ctx context.Context, input CreateRuleInput) (*RuleInfo, error) {
	activeFrom := time.Now()
	if input.ActiveFrom != nil {
		activeFrom = *input.ActiveFrom
	}

	rule, err := payment.NewCommissionRule(
		input.SellerID,
		input.CategoryID,
		decimal.NewFromFloat(input.RatePercent),
		input.Priority,
		activeFrom,
	)
	if err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info("Commission rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("rate_percent", rule.RatePercent.String()))
	return ToRuleInfo(rule), nil
}

// DisableRule takes a rule out of matching without touching its history
func (s *CommissionService) DisableRule(ctx context.Context, ruleID uuid.UUID) error {
	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		return err
	}

	rule.Disable()
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return err
	}

	s.logger.Info("Commission rule disabled", zap.String("rule_id", ruleID.String()))
	return nil
}

// ExpireRule closes a rule's active window, defaulting to now
func (s *CommissionService) ExpireRule(ctx context.Context, input ExpireRuleInput) error {
	rule, err := s.ruleRepo.FindByID(ctx, input.RuleID)
	if err != nil {
		return err
	}

	at := time.Now()
	if input.At != nil {
		at = *input.At
	}
	if err := rule.Expire(at); err != nil {
		return err
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return err
	}

	s.logger.Info("Commission rule expired",
		zap.String("rule_id", input.RuleID.String()), zap.Time("at", at))
	return nil
}

// GetRule finds a commission rule by ID
func (s *CommissionService) GetRule(ctx context.Context, ruleID uuid.UUID) (*RuleInfo, error) {
	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	return ToRuleInfo(rule), nil
}

// ListRules lists commission rules with pagination
func (s *CommissionService) ListRules(ctx context.Context, filter shared.Filter) (*shared.Paginated[*RuleInfo], error) {
	rules, err := s.ruleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ruleRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	infos := make([]*RuleInfo, 0, len(rules))
	for i := range rules {
		infos = append(infos, ToRuleInfo(&rules[i]))
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.PageSize), nil
}
