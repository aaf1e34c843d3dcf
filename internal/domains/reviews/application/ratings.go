package application

import (
	"context"

	"github.com/Apurer/gamerlink-api/internal/domains/reviews/domain"
	"github.com/Apurer/gamerlink-api/internal/domains/reviews/ports"
)

// recomputeRating derives the service rating from stored reviews and writes it back through tx.
func recomputeRating(ctx context.Context, tx ports.Tx, serviceID int64) (domain.RatingSummary, error) {
	count, sum, err := tx.RatingStats(ctx, serviceID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	summary := domain.Summarize(count, sum)
	if err := tx.SetServiceRating(ctx, serviceID, summary); err != nil {
		return domain.RatingSummary{}, err
	}
	return summary, nil
}
