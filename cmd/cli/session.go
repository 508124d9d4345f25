package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

const sessionHeader = "X-Session-ID"

func init() {
	rootCmd.AddCommand(challengeCmd)
	rootCmd.AddCommand(respondCmd)
	rootCmd.AddCommand(completeCmd)

	challengeCmd.Flags().String("player", "", "Id of the challenging player")
	challengeCmd.Flags().String("pin", "", "The challenging player's PIN")
	challengeCmd.MarkFlagRequired("player")
	challengeCmd.MarkFlagRequired("pin")

	respondCmd.Flags().Bool("decline", false, "Decline instead of accepting")
	respondCmd.Flags().String("pin", "", "The defending player's PIN")
	respondCmd.MarkFlagRequired("pin")

	completeCmd.Flags().String("winner", "", "Id of the winning player")
	completeCmd.Flags().String("score", "", "Match score, e.g. \"6-4 6-3\"")
	completeCmd.Flags().String("admin-secret", "", "The ladder admin secret")
	completeCmd.MarkFlagRequired("winner")
	completeCmd.MarkFlagRequired("admin-secret")
}

var challengeCmd = &cobra.Command{
	Use:   "challenge <defender-id>",
	Short: "Log in as a player and challenge someone above them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		player, _ := cmd.Flags().GetString("player")
		pin, _ := cmd.Flags().GetString("pin")

		c := newSessionClient()
		if err := c.expect(c.post("/api/session/login", map[string]string{"playerId": player})); err != nil {
			return err
		}
		if err := c.expect(c.post("/api/session/authenticate", map[string]string{"secret": pin})); err != nil {
			return err
		}
		return c.expect(c.post("/api/challenges", map[string]string{"defenderId": args[0]}))
	},
}

var respondCmd = &cobra.Command{
	Use:   "respond <challenge-id>",
	Short: "Accept or decline a pending challenge as its defender",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		decline, _ := cmd.Flags().GetBool("decline")
		pin, _ := cmd.Flags().GetString("pin")

		c := newSessionClient()
		if err := c.expect(c.post("/api/challenges/"+args[0]+"/respond", map[string]bool{"accept": !decline})); err != nil {
			return err
		}
		return c.expect(c.post("/api/session/authenticate", map[string]string{"secret": pin}))
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <challenge-id>",
	Short: "Record the result of an accepted challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		winner, _ := cmd.Flags().GetString("winner")
		score, _ := cmd.Flags().GetString("score")
		secret, _ := cmd.Flags().GetString("admin-secret")

		c := newSessionClient()
		body := map[string]string{"winnerId": winner, "score": score}
		if err := c.expect(c.post("/api/challenges/"+args[0]+"/complete", body)); err != nil {
			return err
		}
		return c.expect(c.post("/api/session/authenticate", map[string]string{"secret": secret}))
	},
}

// sessionClient carries the server-issued session id from one request to the next.
type sessionClient struct {
	http    *http.Client
	session string
}

func newSessionClient() *sessionClient {
	return &sessionClient{http: &http.Client{Timeout: 30 * time.Second}}
}

func (c *sessionClient) get(endpoint string) (int, error) {
	return c.do(http.MethodGet, endpoint, nil)
}

func (c *sessionClient) post(endpoint string, body any) (int, error) {
	return c.do(http.MethodPost, endpoint, body)
}

func (c *sessionClient) do(method, endpoint string, body any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, url)
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != "" {
		req.Header.Set(sessionHeader, c.session)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if id := resp.Header.Get(sessionHeader); id != "" {
		c.session = id
	}
	printResponse(resp.StatusCode, respBody)
	return resp.StatusCode, nil
}

// expect turns a non-2xx status into an error so multi-step commands stop early.
func (c *sessionClient) expect(status int, err error) error {
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("server answered %d", status)
	}
	return nil
}
