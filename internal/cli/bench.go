package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/restclient-go/restclient/internal/bench"
)

var benchCmd = &cobra.Command{
	Use:   "bench URL",
	Short: "Measure request latency against the specified URL",
	Long: `Issue a fixed number of sequential GET requests and report latency
percentiles from an HDR histogram. --rate caps the request rate.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, headers, err := buildClient(cmd)
		if err != nil {
			return err
		}

		count, _ := cmd.Flags().GetInt("count")
		reqRate, _ := cmd.Flags().GetFloat64("rate")

		result, err := bench.Run(cmd.Context(), client, args[0], bench.Options{
			Count:   count,
			Rate:    reqRate,
			Headers: headers,
		})
		if err != nil {
			return err
		}

		fmt.Printf("requests: %d (%d failed)\n", result.Requests, result.Failed)
		fmt.Printf("elapsed:  %s (%.1f req/s)\n", result.Elapsed.Round(time.Millisecond), result.RPS())
		fmt.Printf("latency:  mean=%s p50=%s p90=%s p99=%s max=%s\n",
			result.Mean(), result.Percentile(50), result.Percentile(90), result.Percentile(99), result.Max())

		if result.Failed > 0 {
			return fmt.Errorf("%d of %d requests failed", result.Failed, result.Requests)
		}
		return nil
	},
}

func init() {
	benchCmd.Flags().IntP("count", "n", 10, "Number of requests to issue")
	benchCmd.Flags().Float64("rate", 0, "Maximum requests per second (0 = unlimited)")
}
