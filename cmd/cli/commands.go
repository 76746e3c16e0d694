package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(gameCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(pendingCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(trackersCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(shotCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List all games",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/games")
	},
}

var gameCmd = &cobra.Command{
	Use:   "game <game-id>",
	Short: "Get a single game with its scores and clock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/games/" + args[0])
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs <game-id>",
	Short: "List the shot log of a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/games/" + args[0] + "/logs")
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending <game-id>",
	Short: "List the pending auto events of a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/games/" + args[0] + "/events/pending")
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review <game-id>",
	Short: "List the open review items of a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/games/" + args[0] + "/review")
	},
}

var trackersCmd = &cobra.Command{
	Use:   "trackers <game-id>",
	Short: "List the trackers present in a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/games/" + args[0] + "/trackers")
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Trigger processing of all pending auto events",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/process", "")
	},
}

var shotCmd = &cobra.Command{
	Use:   "shot <game-id> <player-id> <shot-type>",
	Short: "Record a made shot for a player",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"player_id":%q,"shot_type":%q,"made":true}`, args[1], args[2])
		return performPostRequest("/games/"+args[0]+"/shots", body)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint, body string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
