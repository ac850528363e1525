package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/warehouse-sim/warehouse-sim/internal/notify"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print session notices published to NATS by other players",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := viper.GetString("nats-url")
		if url == "" {
			return fmt.Errorf("watch needs --nats-url or WAREHOUSE_SIM_NATS_URL")
		}
		sub, err := notify.NewNATSSubscriber(url)
		if err != nil {
			return err
		}
		defer sub.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		out := cmd.OutOrStdout()
		err = sub.Subscribe(ctx, notify.NoticeTopic, func(_ context.Context, msg []byte) error {
			env, err := notify.Decode(msg)
			if err != nil {
				return err
			}
			if line := describeNotice(env.Notice); line != "" {
				fmt.Fprintf(out, "[%s %s] %s\n", env.UserID, env.Mode, line)
			}
			return nil
		})
		if err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	},
}
