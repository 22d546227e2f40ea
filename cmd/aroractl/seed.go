package main

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fatihhtaskesenn/arora-backend/internal/adapters/repository"
	"github.com/fatihhtaskesenn/arora-backend/internal/models"
)

// seedCategory describes one category with its subcategory tree. Slugs here
// are the ones the built-in classification rules target.
type seedCategory struct {
	name string
	slug string
	icon string
	subs []seedSubcategory
}

type seedSubcategory struct {
	name     string
	slug     string
	children []seedSubcategory
}

func seedTaxonomy() []seedCategory {
	return []seedCategory{
		{
			name: "Barbekü", slug: "barbeku", icon: "flame",
			subs: []seedSubcategory{
				{name: "Metal Barbeküler", slug: "metal-barbekuler"},
				{name: "Taş Barbeküler", slug: "tas-barbekuler"},
				{name: "Barbekü Aksesuarları", slug: "barbeku-aksesuarlari", children: []seedSubcategory{
					{name: "Izgara ve Teller", slug: "izgara-ve-teller"},
					{name: "Maşa Setleri", slug: "masa-setleri"},
				}},
			},
		},
		{
			name: "Taş Aksesuarlar", slug: "tas-aksesuarlar", icon: "gem",
			subs: []seedSubcategory{
				{name: "Mermer Kurna", slug: "mermer-kurna"},
				{name: "Taş Lavabo", slug: "tas-lavabo"},
				{name: "Mermer Şömine", slug: "mermer-somine"},
			},
		},
		{
			name: "Bahçe", slug: "bahce", icon: "tree",
			subs: []seedSubcategory{
				{name: "Bahçe Mobilyaları", slug: "bahce-mobilyalari"},
				{name: "Çeşmeler", slug: "cesmeler"},
			},
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the category/subcategory taxonomy",
		Long: `Upserts the taxonomy keyed by slug. Re-running is safe: existing rows are
updated in place and no duplicates are created.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			db, cleanup, err := connect(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			repo := repository.NewTaxonomyRepository(db)

			for i, sc := range seedTaxonomy() {
				category, err := repo.UpsertCategory(ctx, models.Category{
					Name:      sc.name,
					Slug:      sc.slug,
					Icon:      sc.icon,
					SortOrder: i + 1,
				})
				if err != nil {
					return err
				}
				log.WithField("slug", category.Slug).Info("Seeded category")

				for j, ss := range sc.subs {
					parent, err := repo.UpsertSubcategory(ctx, models.Subcategory{
						CategoryID: category.ID,
						Name:       ss.name,
						Slug:       ss.slug,
						SortOrder:  j + 1,
					})
					if err != nil {
						return err
					}

					for k, child := range ss.children {
						_, err := repo.UpsertSubcategory(ctx, models.Subcategory{
							CategoryID: category.ID,
							ParentID:   &parent.ID,
							Name:       child.name,
							Slug:       child.slug,
							SortOrder:  k + 1,
						})
						if err != nil {
							return err
						}
					}
				}
			}

			log.Info("Taxonomy seed finished")
			return nil
		},
	}
}
