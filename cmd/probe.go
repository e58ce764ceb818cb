package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/velstream/recurly-export-cli/internal/domain"
)

func newProbeCmd(app *app) *cobra.Command {
	var accountID string
	var sample int

	cmd := &cobra.Command{
		Use:   "probe [endpoint]",
		Short: "Issue a single call against one API endpoint",
		Long:  "probe validates the endpoint name (headers, accounts, subscriptions, redemptions) and issues the matching typed call. Unknown names fail before any network activity.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := string(domain.EndpointHeaders)
			if len(args) > 0 {
				raw = args[0]
			}

			endpoint, err := domain.ParseEndpoint(raw)
			if err != nil {
				return err
			}

			if err := app.requireRecurlyKey(); err != nil {
				return err
			}

			client := app.billingAPI()
			out := cmd.OutOrStdout()

			switch endpoint {
			case domain.EndpointHeaders:
				meta, err := client.Headers(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "total records: %d\n", meta.TotalRecords)
				fmt.Fprintf(out, "rate limit: %d/%d remaining\n", meta.RateLimit.Remaining, meta.RateLimit.Limit)
				if !meta.RateLimit.ResetsAt.IsZero() {
					fmt.Fprintf(out, "rate limit resets: %s\n", meta.RateLimit.ResetsAt.Format(time.RFC3339))
				}

			case domain.EndpointAccounts:
				iterator, err := client.Accounts(cmd.Context(), domain.AccountFilter{Subscriber: true, Order: domain.OrderAsc})
				if err != nil {
					return err
				}
				seen := 0
				for seen < sample && iterator.Next(cmd.Context()) {
					account := iterator.Account()
					fmt.Fprintf(out, "%s\t%s\t%s\n", account.ID, account.Email, account.CreatedAt.Format(time.RFC3339))
					seen++
				}
				if err := iterator.Err(); err != nil {
					return err
				}

			case domain.EndpointSubscriptions:
				if accountID == "" {
					return fmt.Errorf("--account is required for the subscriptions endpoint")
				}
				subscriptions, err := client.Subscriptions(cmd.Context(), domain.AccountID(accountID), domain.StateLive)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d live subscription(s)\n", len(subscriptions))
				for _, subscription := range subscriptions {
					fmt.Fprintf(out, "%s\t%d\n", subscription.PlanName, subscription.UnitAmountMinor)
				}

			case domain.EndpointRedemptions:
				if accountID == "" {
					return fmt.Errorf("--account is required for the redemptions endpoint")
				}
				redemptions, err := client.Redemptions(cmd.Context(), domain.AccountID(accountID))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d redemption(s)\n", len(redemptions))
				for _, redemption := range redemptions {
					fmt.Fprintf(out, "%s\t%s\n", redemption.Coupon.Code, redemption.State)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID for per-account endpoints")
	cmd.Flags().IntVar(&sample, "sample", 3, "Number of accounts to sample")

	return cmd
}
