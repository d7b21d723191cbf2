// Package seed loads a small demo catalog for manual testing.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

var seedNamespace = uuid.MustParse("3d5c0f1e-27a8-4b9e-a6c2-5f0e9d1b7c44")

type productWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type productSeed struct {
	Name        string
	Description string
	Type        string
	Platform    string
	Category    string
	Price       string
	Stock       *int
	Images      []string
}

// Products returns the demo catalog. Ids are derived from the names so
// repeated seeding updates the same rows.
func Products() []domain.Product {
	seeds := []productSeed{
		{
			Name:        "Halo Infinite",
			Description: "Master Chief returns to Zeta Halo",
			Type:        "PHYSICAL_GAME",
			Platform:    "XBOX",
			Category:    "Acción",
			Price:       "189900",
			Stock:       domain.IntPtr(12),
			Images:      demoImages("halo"),
		},
		{
			Name:        "The Legend of Zelda: Tears of the Kingdom",
			Description: "Explore the skies and depths of Hyrule",
			Type:        "PHYSICAL_GAME",
			Platform:    "NINTENDO",
			Category:    "Aventura",
			Price:       "279900",
			Stock:       domain.IntPtr(5),
			Images:      demoImages("zelda"),
		},
		{
			Name:        "PlayStation 5 Slim",
			Description: "1TB console with DualSense controller",
			Type:        "CONSOLE",
			Platform:    "PLAYSTATION",
			Category:    "Consolas",
			Price:       "2899900",
			Stock:       domain.IntPtr(2),
			Images:      demoImages("ps5"),
		},
		{
			Name:        "Steam Wallet 50.000",
			Description: "Digital code for Steam credit",
			Type:        "DIGITAL_KEY",
			Platform:    "STEAM",
			Category:    "Gift cards",
			Price:       "50000",
			Images:      demoImages("steam"),
		},
		{
			Name:        "Valorant Points 1000",
			Description: "In-game currency code",
			Type:        "DIGITAL_KEY",
			Platform:    "VALORANT",
			Category:    "Gift cards",
			Price:       "42000",
			Stock:       domain.IntPtr(0),
			Images:      demoImages("valorant"),
		},
		{
			Name:        "Xbox Wireless Controller",
			Description: "Carbon black controller with textured grip",
			Type:        "ACCESSORY",
			Platform:    "XBOX",
			Category:    "Controles",
			Price:       "259900.50",
			Stock:       domain.IntPtr(8),
			Images:      demoImages("controller"),
		},
	}

	out := make([]domain.Product, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, domain.Product{
			ID:          uuid.NewSHA1(seedNamespace, []byte(s.Name)).String(),
			Name:        s.Name,
			Description: s.Description,
			Type:        s.Type,
			Platform:    s.Platform,
			Category:    s.Category,
			Price:       decimal.RequireFromString(s.Price),
			Stock:       s.Stock,
			Images:      s.Images,
		})
	}
	return out
}

// Apply upserts the demo catalog. It is idempotent.
func Apply(ctx context.Context, repo productWriter) (int, error) {
	products := Products()
	for _, p := range products {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return 0, fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	return len(products), nil
}

func demoImages(slug string) []string {
	return []string{
		"https://images.example.com/" + slug + "/cover.jpg",
		"https://images.example.com/" + slug + "/2.jpg",
		"https://images.example.com/" + slug + "/3.jpg",
	}
}
