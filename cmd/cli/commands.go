package main

import (
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(createClubCmd)
	rootCmd.AddCommand(membersCmd)

	createClubCmd.Flags().Int64("fee", 0, "Monthly dues in cents")
	createClubCmd.Flags().String("currency", "DKK", "Currency of the dues")
	createClubCmd.Flags().String("founder-name", "", "Name of the founding admin")
	createClubCmd.Flags().String("founder-email", "", "Email of the founding admin")

	membersCmd.AddCommand(membersListCmd, membersAddCmd, membersSearchCmd, membersDeactivateCmd, membersRoleCmd)
	membersListCmd.Flags().Bool("active", false, "Only list active members")
	membersAddCmd.Flags().String("email", "", "Email address of the new member")
	membersAddCmd.Flags().String("phone", "", "Phone number of the new member")
	membersAddCmd.Flags().Bool("admin", false, "Make the new member an admin")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the club's activity counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/activity")
	},
}

var createClubCmd = &cobra.Command{
	Use:   "create-club [name]",
	Short: "Create a club with its founding admin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fee, _ := cmd.Flags().GetInt64("fee")
		currency, _ := cmd.Flags().GetString("currency")
		name, _ := cmd.Flags().GetString("founder-name")
		email, _ := cmd.Flags().GetString("founder-email")
		return performRequest(http.MethodPost, "/clubs", map[string]any{
			"name":               args[0],
			"monthly_dues_cents": fee,
			"currency":           currency,
			"founder":            map[string]any{"name": name, "email": email},
		})
	},
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage the members of the club",
}

var membersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the members of the club",
	RunE: func(cmd *cobra.Command, args []string) error {
		active, _ := cmd.Flags().GetBool("active")
		params := map[string]string{}
		if active {
			params["active"] = "true"
		}
		return performGetRequest(withQuery("/members", params))
	},
}

var membersAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Register a new member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")
		admin, _ := cmd.Flags().GetBool("admin")
		role := "member"
		if admin {
			role = "admin"
		}
		return performRequest(http.MethodPost, "/members", map[string]any{
			"name":  args[0],
			"email": email,
			"phone": phone,
			"role":  role,
		})
	},
}

var membersSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find members with a similar name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(withQuery("/members", map[string]string{"search": args[0]}))
	},
}

var membersDeactivateCmd = &cobra.Command{
	Use:   "deactivate [member-id]",
	Short: "Mark a member as inactive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPatch, "/members/"+args[0], map[string]any{"active": false})
	},
}

var membersRoleCmd = &cobra.Command{
	Use:   "role [member-id] [admin|member]",
	Short: "Change a member's role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPatch, "/members/"+args[0], map[string]any{"role": args[1]})
	},
}
