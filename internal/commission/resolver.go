package commission

import (
	"context"
	"time"
)

// Resolver picks the single applicable commission rule for an allocation.
// Specificity wins first (seller+category > seller > category > global), then
// the highest priority, then the most recently created rule.
type Resolver struct {
	rules RuleRepository
}

// NewResolver creates a resolver over the given rule repository
func NewResolver(rules RuleRepository) *Resolver {
	return &Resolver{rules: rules}
}

// Resolve returns the best matching active rule at asOf, or nil when no rule
// covers the seller/category pair. Callers fall back to the configured
// default rate on nil.
func (r *Resolver) Resolve(ctx context.Context, sellerID string, categoryID *string, asOf time.Time) (*CommissionRule, error) {
	candidates, err := r.rules.GetCandidateRules(ctx, sellerID, categoryID, asOf)
	if err != nil {
		return nil, err
	}

	var best *CommissionRule
	for _, rule := range candidates {
		if !rule.AppliesTo(sellerID, categoryID, asOf) {
			continue
		}
		if best == nil || outranks(rule, best) {
			best = rule
		}
	}

	return best, nil
}

// outranks reports whether a should be chosen over b
func outranks(a, b *CommissionRule) bool {
	if a.MatchKind() != b.MatchKind() {
		return a.MatchKind() > b.MatchKind()
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	// Equal specificity and priority: most recently created wins to keep
	// resolution deterministic
	return a.CreatedAt.After(b.CreatedAt)
}
