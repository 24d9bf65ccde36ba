package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, logToStderr)
		if err != nil {
			return err
		}
		defer d.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = d.cfg.Server.Addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := api.New(api.Deps{
			Selector:       d.selector,
			Results:        d.store.ResultRepo(),
			Answers:        d.store.AnswerRepo(),
			Daily:          d.store.DailyRepo(),
			Tutor:          d.tutor,
			Rules:          d.rules(),
			Logger:         d.logger,
			AllowedOrigins: d.cfg.Server.AllowedOrigins,
		})
		d.logger.Info("starting api", zap.String("env", d.cfg.Env), zap.Bool("tutor", d.tutor.Enabled()))
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default server.addr from config)")
}
