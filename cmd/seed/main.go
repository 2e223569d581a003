package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"giveflow/internal/infra"
	"giveflow/internal/sqlinline"
)

type seedCampaign struct {
	title       string
	description string
	category    string
	goal        float64
	chains      []string
}

var seedCampaigns = []seedCampaign{
	{"Clean Water for Kivu", "Drilling wells and installing filtration so villages around Lake Kivu get safe drinking water.", "Health", 50000, []string{"Ethereum", "Polygon"}},
	{"EdTech for All", "Laptops, connectivity, and open technology curriculum for rural classrooms.", "Education", 75000, []string{"Ethereum"}},
	{"Reforest the Valley", "Planting native trees to restore the watershed and bring back wildlife.", "Environment", 30000, []string{"Polygon", "Solana"}},
	{"Mobile Medical Clinics", "Equipping vans with medical staff and supplies to reach remote communities.", "Health", 120000, []string{"Ethereum", "Solana"}},
	{"Coding Nights", "Free evening programming classes and mentorship for first-generation students.", "Education", 20000, []string{"Polygon"}},
}

// Seeds the campaign catalog for local development.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	for _, c := range seedCampaigns {
		_, err := dbpool.Exec(ctx, sqlinline.QInsertCampaign,
			uuid.NewString(), c.title, c.description, c.category, c.goal, 0.0, c.chains, "")
		if err != nil {
			logger.Fatal().Err(err).Str("title", c.title).Msg("failed to seed campaign")
		}
		logger.Info().Str("title", c.title).Msg("seeded campaign")
	}
	logger.Info().Int("count", len(seedCampaigns)).Msg("seed complete")
}
