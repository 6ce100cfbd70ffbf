package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/localnerve/canconnect/internal/models"
	"github.com/localnerve/canconnect/internal/services"
	"github.com/spf13/cobra"
)

var errNotFound = errors.New("not found")

func newRootCommand(open opener) *cobra.Command {
	var envFile string
	var rt *runtime

	cmd := &cobra.Command{
		Use:   "canconnect",
		Short: "CanConnect back-office CLI",
		Long: `canconnect inspects and manages the application and payment records
of a CanConnect portal, using the same store configuration as the server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			rt, err = open(cmd.Context(), envFile)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if rt == nil || rt.close == nil {
				return nil
			}
			return rt.close()
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Environment file to load (default .env)")

	get := func() *runtime { return rt }
	cmd.AddCommand(
		newListCmd(get),
		newSearchCmd(get),
		newShowCmd(get),
		newStatsCmd(get),
		newSetStatusCmd(get),
		newDeleteCmd(get),
		newPaymentsCmd(get),
		newReceiptCmd(get),
		newFeesCmd(get),
	)
	return cmd
}

func newListCmd(rt func() *runtime) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apps := rt().applications.AllApplications(cmd.Context())
			if status != "" {
				filtered := apps[:0]
				for _, a := range apps {
					if string(a.Status) == status {
						filtered = append(filtered, a)
					}
				}
				apps = filtered
			}
			return writeApplications(cmd.OutOrStdout(), apps)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only applications with this status")
	return cmd
}

func newSearchCmd(rt func() *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search applications by id or service type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeApplications(cmd.OutOrStdout(), rt().applications.SearchApplications(cmd.Context(), args[0]))
		},
	}
}

func newShowCmd(rt func() *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one application as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, ok := rt().applications.GetApplicationByID(cmd.Context(), models.ApplicationID(args[0]))
			if !ok {
				return fmt.Errorf("application %s: %w", args[0], errNotFound)
			}
			return writeJSON(cmd.OutOrStdout(), app)
		},
	}
}

func newStatsCmd(rt func() *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count applications by status and summarize payments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s := rt().applications.ApplicationStats(ctx)
			p := rt().payments.PaymentStats(ctx)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "total\t%d\n", s.Total)
			fmt.Fprintf(w, "pending\t%d\n", s.Pending)
			fmt.Fprintf(w, "processing\t%d\n", s.Processing)
			fmt.Fprintf(w, "approved\t%d\n", s.Approved)
			fmt.Fprintf(w, "rejected\t%d\n", s.Rejected)
			fmt.Fprintf(w, "payments\t%d\n", p.Total)
			fmt.Fprintf(w, "collected\t%s\n", services.FormatCurrency(p.TotalAmount))
			return w.Flush()
		},
	}
}

func newSetStatusCmd(rt func() *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Change the status of an application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := models.Status(args[1])
			if !status.Valid() {
				return fmt.Errorf("invalid status %q, want one of %v", args[1], models.Statuses)
			}
			app, ok, err := rt().applications.UpdateApplicationStatus(cmd.Context(), models.ApplicationID(args[0]), status, nil)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("application %s: %w", args[0], errNotFound)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", app.ID, app.Status)
			return nil
		},
	}
}

func newDeleteCmd(rt func() *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := rt().applications.DeleteApplication(cmd.Context(), models.ApplicationID(args[0]))
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("application %s: %w", args[0], errNotFound)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newPaymentsCmd(rt func() *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "payments <application-id>",
		Short: "List payments made for an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payments := rt().payments.ApplicationPayments(cmd.Context(), models.ApplicationID(args[0]))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TRANSACTION\tAMOUNT\tMETHOD\tSTATUS")
			for _, p := range payments {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.TransactionID, services.FormatCurrency(p.Amount), p.PaymentMethod.Label(), p.Status)
			}
			return w.Flush()
		},
	}
}

func newReceiptCmd(rt func() *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <transaction-id>",
		Short: "Print the receipt of a payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := rt().payments.GetPaymentRecord(cmd.Context(), models.TransactionID(args[0]))
			if !ok {
				return fmt.Errorf("payment %s: %w", args[0], errNotFound)
			}
			fmt.Fprintln(cmd.OutOrStdout(), services.GenerateReceipt(p))
			return nil
		},
	}
}

func newFeesCmd(rt func() *runtime) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "fees",
		Short: "List services and their fees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tSERVICE\tCATEGORY\tFEE")
			for _, l := range rt().catalog.All(category) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.Slug, l.Name, l.Category, services.FormatCurrency(l.Fee))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only services of this category")
	return cmd
}

func writeApplications(out io.Writer, apps []models.ApplicationRecord) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSERVICE\tSTATUS\tDATE\tPAYMENT")
	for _, a := range apps {
		payment := "-"
		if a.PaymentStatus != "" {
			payment = string(a.PaymentStatus)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Type, a.Status, a.Date, payment)
	}
	return w.Flush()
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
