package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(challengeableCmd)
	rootCmd.AddCommand(challengesCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(refreshRanksCmd)

	matchesCmd.Flags().Int("limit", 5, "Number of matches to show")
	refreshRanksCmd.Flags().Int("days", 0, "Look back this many days for club levels (server default when 0)")
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

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the ladder in position order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/players")
	},
}

var challengeableCmd = &cobra.Command{
	Use:   "challengeable <player-id>",
	Short: "List the players a player may challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/players/" + url.PathEscape(args[0]) + "/challengeable")
	},
}

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "List pending and accepted challenges",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/challenges/active")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the most recent match results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return performGetRequest("/api/matches/recent?limit=" + strconv.Itoa(limit))
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Show the latest ladder events",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/notifications")
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire challenges that were not answered in time",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := newSessionClient().post(withDryRun("/tasks/sweep"), nil)
		return err
	},
}

var refreshRanksCmd = &cobra.Command{
	Use:   "refresh-ranks",
	Short: "Copy club skill levels onto ladder players",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/tasks/refresh-ranks"
		if days, _ := cmd.Flags().GetInt("days"); days > 0 {
			endpoint += "?days=" + strconv.Itoa(days)
		}
		_, err := newSessionClient().post(withDryRun(endpoint), nil)
		return err
	},
}

func withDryRun(endpoint string) string {
	if !dryRun {
		return endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	q := u.Query()
	q.Set("dry_run", "true")
	u.RawQuery = q.Encode()
	return u.String()
}

func performGetRequest(endpoint string) error {
	_, err := newSessionClient().get(endpoint)
	return err
}

func printResponse(status int, body []byte) {
	fmt.Printf("Status Code: %d\n", status)
	fmt.Println("Response Body:")
	fmt.Println(string(body))
}
