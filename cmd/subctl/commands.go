package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// action maps a CLI subcommand onto the HTTP route suffix of one operation.
type action struct {
	use   string
	short string
	path  string
}

var actions = []action{
	{"start-renewal", "Move an active subscription to pending_renewal", "pending-renewal"},
	{"pause", "Pause an active or renewing subscription", "pause"},
	{"fail", "Mark a pending renewal as failed", "fail"},
	{"cancel", "Cancel a subscription (terminal)", "cancel"},
	{"resume", "Resume a paused subscription", "resume"},
	{"retry", "Retry a failed renewal", "retry"},
	{"complete-renewal", "Complete a pending renewal", "complete-renewal"},
}

func newRootCmd() *cobra.Command {
	var server string

	root := &cobra.Command{
		Use:          "subctl",
		Short:        "Operate on subscriptions through the subscription service API",
		SilenceUsage: true,
	}
	defaultServer := os.Getenv("SUBCTL_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	root.PersistentFlags().StringVar(&server, "server", defaultServer, "base URL of the subscription service")

	client := func() *apiClient { return newAPIClient(server) }

	root.AddCommand(&cobra.Command{
		Use:   "create <id>",
		Short: "Create an active subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := client().Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printSubscription(cmd.OutOrStdout(), sub)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := client().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printSubscription(cmd.OutOrStdout(), sub)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "transitions",
		Short: "List the legal transitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules, err := client().Transitions(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "OPERATION\tTARGET\tFROM")
			for _, r := range rules {
				fmt.Fprintf(w, "%s\t%s\t%v\n", r.Operation, r.Target, r.From)
			}
			return w.Flush()
		},
	})

	for _, a := range actions {
		a := a
		root.AddCommand(&cobra.Command{
			Use:   a.use + " <id>",
			Short: a.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sub, err := client().Transition(cmd.Context(), args[0], a.path)
				if err != nil {
					return err
				}
				return printSubscription(cmd.OutOrStdout(), sub)
			},
		})
	}

	return root
}

func printSubscription(w io.Writer, sub *subscriptionView) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sub)
}
