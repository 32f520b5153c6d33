package store

import (
	"context"
	"log/slog"

	"github.com/nexuscoach/nexuscoach/internal/domain"
)

// seedCorrections are factual amendments known to be wrong in common
// model training data. They are applied on every startup; the dedup key
// makes reapplication a no-op beyond a confidence bump.
var seedCorrections = []domain.Correction{
	{
		Champion:    "Aurelion Sol",
		Ability:     "passive",
		Topic:       "mechanics",
		WrongInfo:   "estrelas orbitam ao redor dele causando dano",
		CorrectInfo: "no Wild Rift o passivo acumula Poeira Estelar ao causar dano com habilidades, melhorando-as permanentemente; nao ha estrelas orbitando como no LoL de PC",
	},
}

// Seed applies the built-in corrections. Failures are logged, not fatal.
func Seed(ctx context.Context, repo Repository) {
	for _, correction := range seedCorrections {
		if _, err := repo.SaveCorrection(ctx, correction); err != nil {
			slog.Warn("failed to seed correction",
				"champion", correction.Champion,
				"error", err)
		}
	}
}
