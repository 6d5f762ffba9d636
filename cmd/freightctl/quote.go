// README: quote subcommand; runs the pipeline once and prints the JSON response.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"freight/internal/app"
	"freight/internal/pipeline"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a shipment and list the best-fit drivers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := serviceConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), viper.GetDuration("timeout"))
		defer cancel()

		a, err := app.Build(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Pipeline.Run(ctx, pipeline.RawRequest{
			From:   viper.GetString("from"),
			To:     viper.GetString("to"),
			Weight: viper.GetString("weight"),
			Volume: viper.GetString("volume"),
		})
		if err != nil {
			return fmt.Errorf("%s: %w", pipeline.StageOf(err), err)
		}
		return writeQuote(cmd, res.Response())
	},
}

func init() {
	quoteCmd.Flags().String("from", "", "Origin city")
	quoteCmd.Flags().String("to", "", "Destination city")
	quoteCmd.Flags().String("weight", "", "Cargo weight")
	quoteCmd.Flags().String("volume", "", "Cargo volume")
	_ = viper.BindPFlags(quoteCmd.Flags())
}

func writeQuote(cmd *cobra.Command, resp pipeline.Response) error {
	out := cmd.OutOrStdout()
	if out == nil {
		out = os.Stdout
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}
