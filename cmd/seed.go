package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"styleshop/internal/app"
	"styleshop/internal/database"
	"styleshop/internal/repositories"
	"styleshop/internal/services"
)

var skipIndex bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the default catalog and rebuild the search index",
	Long: `Insert the default products and collections. Products are matched by
name and collections by slug, so running seed twice changes nothing.

When ES_ADDRESSES is set the whole catalog is reindexed afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, log := setup()

		infra, err := app.Connect(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer infra.Close()

		if err := database.Migrate(infra.DB); err != nil {
			return err
		}

		res, err := infra.ProductService(cfg, log).Seed(ctx, services.DefaultProducts(), services.DefaultCollections())
		if err != nil {
			return err
		}
		cmd.Printf("products: %d created, %d already present; collections: %d written\n",
			res.ProductsCreated, res.ProductsSkipped, res.CollectionsWritten)

		index := infra.ProductIndex(cfg, log)
		if skipIndex || index == nil {
			return nil
		}
		products, err := repositories.NewGORMProductRepository(infra.DB).List(ctx, repositories.ProductFilter{})
		if err != nil {
			return err
		}
		n, err := index.Reindex(ctx, products)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"indexed": n, "index": cfg.ESProductsIndex}).Info("search index rebuilt")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&skipIndex, "skip-index", false, "Do not rebuild the search index")
}
