// Package classifier assigns spending categories to expense descriptions.
//
// Classification runs an ordered list of strategies until one yields a
// confident result: keyword matching first, then an optional external
// natural-language labeler, then the fixed fallback category. Each strategy
// is a pure function with a "no match" result rather than an error.
package classifier

import (
	"context"
	"log/slog"
	"strings"

	"github.com/savieapp/savie/internal/metrics"
	"github.com/savieapp/savie/internal/models"
)

// FallbackCategory is the label used when nothing else matches and the store
// holds no category named "Other".
const FallbackCategory = "Other"

// Labeler is the external natural-language classification collaborator.
// Given a description and a closed list of category names it returns one name
// from that list or an error. Implementations must not cache the list across
// calls; it can change between invocations.
type Labeler interface {
	Label(ctx context.Context, description string, names []string) (string, error)
}

// Strategy tries to classify a description against the given categories,
// returning the category label and true on a confident match.
type Strategy func(ctx context.Context, description string, categories []models.Category) (string, bool)

// Classifier evaluates its strategies in order. It holds no category state:
// the caller passes the current category list into every call.
type Classifier struct {
	strategies []Strategy
}

// New builds the standard strategy chain. A nil labeler skips the external
// step and degrades to keyword-plus-fallback classification.
func New(labeler Labeler) *Classifier {
	strategies := []Strategy{Keywords}
	if labeler != nil {
		strategies = append(strategies, External(labeler))
	}
	strategies = append(strategies, Fallback)
	return &Classifier{strategies: strategies}
}

// Classify returns the category label for the description. It always
// resolves: the final strategy never declines.
func (c *Classifier) Classify(ctx context.Context, description string, categories []models.Category) string {
	for _, s := range c.strategies {
		if label, ok := s(ctx, description, categories); ok {
			return label
		}
	}
	return FallbackCategory
}

// Keywords matches the lowercased description against every category's
// keyword list; the first category (creation order) with a keyword present as
// a substring wins.
func Keywords(_ context.Context, description string, categories []models.Category) (string, bool) {
	lower := strings.ToLower(description)
	for _, cat := range categories {
		for _, kw := range cat.KeywordList() {
			if strings.Contains(lower, kw) {
				metrics.Classifications.WithLabelValues("keyword").Inc()
				return cat.Label(), true
			}
		}
	}
	return "", false
}

// External wraps the labeler as a strategy. It is a single best-effort call:
// any error, timeout or label outside the known set is treated as non-match,
// logged and never surfaced.
func External(labeler Labeler) Strategy {
	return func(ctx context.Context, description string, categories []models.Category) (string, bool) {
		names := make([]string, len(categories))
		for i, cat := range categories {
			names[i] = cat.Name
		}

		name, err := labeler.Label(ctx, description, names)
		if err != nil {
			slog.Warn("external classifier unavailable", "error", err)
			return "", false
		}
		for _, cat := range categories {
			if cat.Name == name {
				metrics.Classifications.WithLabelValues("external").Inc()
				slog.Info("expense classified externally", "description", description, "category", name)
				return cat.Label(), true
			}
		}
		slog.Warn("external classifier returned unknown label", "label", name)
		return "", false
	}
}

// Fallback classifies into the fixed fallback category. It always matches.
func Fallback(_ context.Context, _ string, categories []models.Category) (string, bool) {
	metrics.Classifications.WithLabelValues("fallback").Inc()
	for _, cat := range categories {
		if cat.Name == FallbackCategory {
			return cat.Label(), true
		}
	}
	return FallbackCategory, true
}
