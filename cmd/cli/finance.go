package main

import (
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(financeCmd)

	financeCmd.AddCommand(
		accountsCmd, addAccountCmd, transactionsCmd, recordTxCmd,
		balancesCmd, summaryCmd, duesCmd, exportCmd,
	)
	duesCmd.AddCommand(duesListCmd, duesGenerateCmd, duesPayCmd)

	for _, c := range []*cobra.Command{transactionsCmd, balancesCmd, duesListCmd, exportCmd} {
		c.Flags().String("period", "", "YYYY or YYYY-MM")
	}
	recordTxCmd.Flags().String("direction", "in", "in or out")
	recordTxCmd.Flags().String("member", "", "Member the money came from or went to")
	recordTxCmd.Flags().String("description", "", "What the money was for")
	recordTxCmd.Flags().String("date", "", "YYYY-MM-DD, defaults to today")
	summaryCmd.Flags().String("year", "", "Year to summarise, defaults to this year")
	duesListCmd.Flags().Bool("unpaid", false, "Only list unpaid dues")
	duesGenerateCmd.Flags().String("period", "", "YYYY-MM, defaults to this month")
	duesGenerateCmd.Flags().Bool("async", false, "Queue a background run for every club")
	exportCmd.Flags().StringP("output", "o", "ledger.xlsx", "File to write the workbook to")
}

var financeCmd = &cobra.Command{
	Use:   "finance",
	Short: "Work with the club ledger",
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the chart of accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/finance/accounts")
	},
}

var addAccountCmd = &cobra.Command{
	Use:   "add-account [code] [name] [asset|liability|equity|income|expense]",
	Short: "Add an account to the chart",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/finance/accounts", map[string]any{
			"code": args[0],
			"name": args[1],
			"kind": args[2],
		})
	},
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		return performGetRequest(withQuery("/finance/transactions", map[string]string{"period": period}))
	},
}

var recordTxCmd = &cobra.Command{
	Use:   "record [account-id] [amount-cents]",
	Short: "Record money entering or leaving an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return err
		}
		direction, _ := cmd.Flags().GetString("direction")
		member, _ := cmd.Flags().GetString("member")
		description, _ := cmd.Flags().GetString("description")
		date, _ := cmd.Flags().GetString("date")
		return performRequest(http.MethodPost, "/finance/transactions", map[string]any{
			"account_id":   args[0],
			"member_id":    member,
			"amount_cents": amount,
			"direction":    direction,
			"description":  description,
			"occurred_on":  date,
		})
	},
}

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show account balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		return performGetRequest(withQuery("/finance/balances", map[string]string{"period": period}))
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show income and expenses per month",
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetString("year")
		return performGetRequest(withQuery("/finance/summary", map[string]string{"year": year}))
	},
}

var duesCmd = &cobra.Command{
	Use:   "dues",
	Short: "Manage monthly dues",
}

var duesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dues",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		unpaid, _ := cmd.Flags().GetBool("unpaid")
		params := map[string]string{"period": period}
		if unpaid {
			params["unpaid"] = "true"
		}
		return performGetRequest(withQuery("/finance/dues", params))
	},
}

var duesGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create the dues of a month for every active member",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		async, _ := cmd.Flags().GetBool("async")
		if async {
			return performRequest(http.MethodPost, "/finance/dues/generate?async=true", nil)
		}
		return performRequest(http.MethodPost, "/finance/dues/generate", map[string]any{"period": period})
	},
}

var duesPayCmd = &cobra.Command{
	Use:   "pay [due-id]",
	Short: "Mark a due as paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/finance/dues/"+args[0]+"/pay", nil)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the ledger as an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		output, _ := cmd.Flags().GetString("output")
		return downloadTo(withQuery("/finance/export", map[string]string{"period": period}), output)
	},
}
