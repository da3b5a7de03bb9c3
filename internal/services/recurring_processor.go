package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
)

// TickResult describes one scheduler firing pass.
type TickResult struct {
	Reference time.Time          `json:"reference"`
	Generated []core.Transaction `json:"transactions"`
	Fired     []int64            `json:"ruleIds"`
}

// Count is the number of transactions generated.
func (r TickResult) Count() int { return len(r.Generated) }

// RecurringProcessor turns due recurring rules into transactions.
type RecurringProcessor struct {
	logger *log.Logger
}

func NewRecurringProcessor(logger *log.Logger) *RecurringProcessor {
	if logger == nil {
		logger = log.Default()
	}
	return &RecurringProcessor{logger: logger.WithComponent(log.ComponentScheduler)}
}

// Tick evaluates every rule against the same reference instant. Each due
// rule fires once, however many periods it is overdue: one transaction is
// generated, the batch is posted, and the rule's lastProcessed moves to
// ref. A second Tick at the same ref generates nothing.
func (p *RecurringProcessor) Tick(ctx context.Context, s *ledger.State, ref time.Time) TickResult {
	result := TickResult{Reference: ref}

	for _, rule := range s.Rules {
		due, err := IsRuleDue(rule, ref)
		if err != nil {
			if errors.Is(err, core.ErrUnknownFrequency) {
				p.logger.WarnContext(ctx, "Skipping rule with unknown frequency",
					log.FieldRuleID, rule.ID, log.FieldFrequency, rule.Frequency)
				continue
			}
			p.logger.Failure(ctx, "Failed to evaluate rule", log.OpTick, err, log.FieldRuleID, rule.ID)
			continue
		}
		if !due {
			continue
		}

		rid := rule.ID
		result.Generated = append(result.Generated, core.Transaction{
			ID:          core.NewTransactionID(),
			Description: rule.Description,
			Amount:      rule.Amount,
			Category:    rule.Category,
			Type:        rule.Type,
			Account:     rule.Account,
			Date:        ref,
			IsRecurring: true,
			RecurringID: &rid,
		})
		result.Fired = append(result.Fired, rule.ID)
	}

	if len(result.Generated) == 0 {
		p.logger.DebugContext(ctx, "No recurring rules due", log.FieldReference, ref)
		return result
	}

	s.ApplyBatch(result.Generated)
	s.MarkProcessed(result.Fired, ref)
	s.Notifications.Info(fmt.Sprintf("Added %d recurring transactions", len(result.Generated)))

	p.logger.InfoContext(ctx, "Recurring transactions generated",
		log.FieldGenerated, len(result.Generated),
		log.FieldCount, len(s.Rules),
		log.FieldReference, ref.Format(time.RFC3339))
	return result
}
