package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"courier/marcas/internal/app/domains/apimodel/response"
	"courier/marcas/internal/app/infra/persistence/mysql"
	"courier/marcas/internal/app/infra/persistence/redis"
)

func newGuiasCmd() *cobra.Command {
	var (
		manifest string
		guia     string
	)
	cmd := &cobra.Command{
		Use:   "guias",
		Short: "查询manifest下的运单并以 JSON 输出",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := mysql.Open(cfg.MySQL, 1)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			svc := newMarcasService(cfg, db, nil, log)
			proj, err := svc.QueryGuides(cmd.Context(), manifest, guia)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(response.FromGuides(proj.Guides))
		},
	}
	cmd.Flags().StringVar(&manifest, "manifiesto", "", "manifest编号（仅数字）")
	cmd.Flags().StringVar(&guia, "guia", "", "运单号过滤（可选）")
	_ = cmd.MarkFlagRequired("manifiesto")
	return cmd
}

func newEsperarCmd() *cobra.Command {
	var (
		batchID string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "esperar",
		Short: "等待批次落账通知（redis pub/sub）",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			client, err := redis.NewPubSubClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.ChannelPrefix)
			if err != nil {
				return err
			}
			defer client.Close()

			log.Infof(ctx, "waiting on %s for %s", client.BatchChannel(batchID), timeout)
			payload, err := client.WaitBatch(ctx, batchID, timeout)
			if err != nil {
				return fmt.Errorf("wait batch %s failed: %w", batchID, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), payload)
			return nil
		},
	}
	cmd.Flags().StringVar(&batchID, "lote", "", "批次 ID（idLote）")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "等待超时")
	_ = cmd.MarkFlagRequired("lote")
	return cmd
}
