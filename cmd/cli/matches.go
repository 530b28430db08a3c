package main

import (
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(deleteStatCmd)

	matchesCmd.AddCommand(
		matchesListCmd, matchesScheduleCmd, matchesShowCmd, matchesConfirmCmd,
		matchesBoardCmd, matchesAssignCmd, matchesRandomizeCmd,
		matchesStartCmd, matchesCompleteCmd, matchesCancelCmd,
		matchesRecordCmd, matchesScoreboardCmd,
	)
	matchesListCmd.Flags().String("state", "", "Only list matches in this state")
	matchesScheduleCmd.Flags().String("venue", "", "Where the match is played")
	matchesConfirmCmd.Flags().String("person", "", "Answer on behalf of this member (admins only)")
	matchesConfirmCmd.Flags().Bool("decline", false, "Decline instead of confirming")
	matchesCancelCmd.Flags().String("reason", "", "Why the match is cancelled")
	matchesRecordCmd.Flags().String("assist", "", "Participant ID of the assisting player")
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Schedule and run matches",
}

var matchesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the club's matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, _ := cmd.Flags().GetString("state")
		return performGetRequest(withQuery("/matches", map[string]string{"state": state}))
	},
}

var matchesScheduleCmd = &cobra.Command{
	Use:   "schedule [when]",
	Short: `Schedule a match, e.g. schedule "next saturday at 10am" --venue "Park"`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		venue, _ := cmd.Flags().GetString("venue")
		return performRequest(http.MethodPost, "/matches", map[string]any{"when": args[0], "venue": venue})
	},
}

var matchesShowCmd = &cobra.Command{
	Use:   "show [match-id]",
	Short: "Show a match and its participants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches/" + args[0])
	},
}

var matchesConfirmCmd = &cobra.Command{
	Use:   "confirm [match-id]",
	Short: "Confirm or decline attendance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		person, _ := cmd.Flags().GetString("person")
		decline, _ := cmd.Flags().GetBool("decline")
		return performRequest(http.MethodPost, "/matches/"+args[0]+"/confirm", map[string]any{
			"person_id": person,
			"attending": !decline,
		})
	},
}

var matchesBoardCmd = &cobra.Command{
	Use:   "board [match-id]",
	Short: "Show the team sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches/" + args[0] + "/board")
	},
}

var matchesAssignCmd = &cobra.Command{
	Use:   "assign [match-id] [participant-id] [A|B|none]",
	Short: "Move a participant to a team",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		team := args[2]
		if team == "none" {
			team = ""
		}
		return performRequest(http.MethodPost, "/matches/"+args[0]+"/board/assign", map[string]any{
			"participant_id": args[1],
			"team":           team,
		})
	},
}

var matchesRandomizeCmd = &cobra.Command{
	Use:   "randomize [match-id]",
	Short: "Draw random teams from the confirmed players",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/matches/"+args[0]+"/board/randomize", nil)
	},
}

var matchesStartCmd = &cobra.Command{
	Use:   "start [match-id]",
	Short: "Kick off a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/matches/"+args[0]+"/start", nil)
	},
}

var matchesCompleteCmd = &cobra.Command{
	Use:   "complete [match-id]",
	Short: "Blow the final whistle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/matches/"+args[0]+"/complete", nil)
	},
}

var matchesCancelCmd = &cobra.Command{
	Use:   "cancel [match-id]",
	Short: "Cancel a scheduled match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")
		return performRequest(http.MethodPost, "/matches/"+args[0]+"/cancel", map[string]any{"reason": reason})
	},
}

var matchesRecordCmd = &cobra.Command{
	Use:   "record [match-id] [participant-id] [goal|own_goal|save|assist]",
	Short: "Record a statistic",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		assist, _ := cmd.Flags().GetString("assist")
		return performRequest(http.MethodPost, "/matches/"+args[0]+"/statistics", map[string]any{
			"participant_id":        args[1],
			"kind":                  args[2],
			"assist_participant_id": assist,
		})
	},
}

var matchesScoreboardCmd = &cobra.Command{
	Use:   "scoreboard [match-id]",
	Short: "Show teams, events and score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches/" + args[0] + "/scoreboard")
	},
}

var deleteStatCmd = &cobra.Command{
	Use:   "delete-stat [statistic-id]",
	Short: "Remove a wrongly recorded statistic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, "/statistics/"+args[0], nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show player statistics across completed matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard")
	},
}
