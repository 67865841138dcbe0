package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type winerySeed struct {
	Name            string
	Slug            string
	Address         string
	City            string
	TastingFee      float64
	AvgVisitMinutes int
}

// Apply inserts sample wineries for manual testing. Idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	wineries := []winerySeed{
		{
			Name:            "Stonebridge Cellars",
			Slug:            "stonebridge-cellars",
			Address:         "1200 Vineyard Rd",
			City:            "Healdsburg",
			TastingFee:      35,
			AvgVisitMinutes: 75,
		},
		{
			Name:            "Foxglove Estate",
			Slug:            "foxglove-estate",
			Address:         "88 Ridge Line Dr",
			City:            "Sonoma",
			TastingFee:      25,
			AvgVisitMinutes: 60,
		},
		{
			Name:            "Old Oak Winery",
			Slug:            "old-oak-winery",
			Address:         "455 Valley Floor Ave",
			City:            "Napa",
			TastingFee:      45,
			AvgVisitMinutes: 90,
		},
		{
			Name:            "Terrace Hill Vineyards",
			Slug:            "terrace-hill-vineyards",
			Address:         "2 Terrace Hill Ct",
			City:            "Calistoga",
			TastingFee:      30,
			AvgVisitMinutes: 60,
		},
	}

	const q = `
INSERT INTO wineries (name, slug, address, city, tasting_fee, avg_visit_minutes)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (slug) DO NOTHING
`
	for _, w := range wineries {
		if _, err := pool.Exec(ctx, q, w.Name, w.Slug, w.Address, w.City, w.TastingFee, w.AvgVisitMinutes); err != nil {
			return fmt.Errorf("insert winery %s: %w", w.Slug, err)
		}
	}
	return nil
}
