// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/listify/internal/core/media"
	"github.com/taibuivan/listify/internal/core/resultcache"
	"github.com/taibuivan/listify/internal/core/sweeper"
	"github.com/taibuivan/listify/internal/core/tag"
	"github.com/taibuivan/listify/internal/platform/ctxutil"
	pgstore "github.com/taibuivan/listify/internal/platform/postgres"
	redisstore "github.com/taibuivan/listify/internal/platform/redis"
)

var dryRun bool

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete media that no tracking entry references",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		ctx := ctxutil.WithLogger(cmd.Context(), logger)

		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, cfg.Pool.PoolOptions(), logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		var store resultcache.Store = resultcache.NopStore{}
		if cfg.RedisURL != "" {
			client, err := redisstore.NewClient(ctx, cfg.RedisURL, logger)
			if err != nil {
				return err
			}
			defer client.Close()
			store = resultcache.NewRedisStore(client)
		}

		tagRepository := tag.NewPostgresRepository(pool)
		catalog := media.NewCatalog(
			media.NewPostgresRepository(pool),
			tag.NewAssociations(tagRepository, tag.NewNormalizer(tagRepository)),
			pgstore.NewTxManager(pool),
			resultcache.NewCoordinator(store, cfg.ResultCachePrefix),
			media.NewLocalAssets(cfg.AssetDir, cfg.AssetURLPrefix),
		)

		if dryRun {
			ids, err := catalog.ListOrphans(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d orphaned media: %v\n", len(ids), ids)
			return nil
		}

		started := time.Now()
		deleted, err := sweeper.New(catalog, sweeper.Options{}).Sweep(ctx)
		if err != nil {
			return err
		}

		logger.Info("sweep_complete", slog.Int("deleted", deleted))
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d orphaned media in %s\n", deleted, time.Since(started).Round(time.Millisecond))
		return nil
	},
}

func init() {
	sweepCmd.Flags().BoolVar(&dryRun, "dry-run", false, "only list orphaned media ids")
	rootCmd.AddCommand(sweepCmd)
}
