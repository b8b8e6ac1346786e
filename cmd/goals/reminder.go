package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/saulo-duarte/chronos-goals/internal/config"
	"github.com/saulo-duarte/chronos-goals/internal/container"
	"github.com/saulo-duarte/chronos-goals/internal/notification"
	"github.com/spf13/cobra"
)

var reminderCmd = &cobra.Command{
	Use:   "reminder",
	Short: "Send the daily goals reminder",
	Long: `Send "Remember your daily goals!" to every registered device of users
who turned notifications on.

Run it once from cron, or pass --lambda to serve scheduled EventBridge
invocations:
  goals reminder
  goals reminder --lambda`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asLambda, _ := cmd.Flags().GetBool("lambda")

		svc, err := container.NewReminder(cmd.Context())
		if err != nil {
			return err
		}

		if asLambda {
			lambda.Start(func(ctx context.Context, evt events.CloudWatchEvent) (notification.Report, error) {
				config.WithContext(ctx).WithField("event_id", evt.ID).Info("Scheduled reminder invoked")
				return svc.SendDailyReminder(ctx)
			})
			return nil
		}

		report, err := svc.SendDailyReminder(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "devices: %d, sent: %d, failed: %d, removed: %d\n",
			report.Tokens, report.Sent, report.Failed, report.Removed)
		return nil
	},
}

func init() {
	reminderCmd.Flags().Bool("lambda", false, "run as an AWS Lambda handler")
	rootCmd.AddCommand(reminderCmd)
}
