package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	actor     string
)

func defaultServerURL() string {
	if s := os.Getenv("GDS_SERVER_URL"); s != "" {
		return s
	}
	return "http://localhost:8090"
}

var rootCmd = &cobra.Command{
	Use:   "gatectl <command>",
	Short: "CLI client for the gate discovery service",
}

var discoverCmd = &cobra.Command{
	Use:   "discover <eventId>",
	Short: "Run the discovery pipeline for an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		path := fmt.Sprintf("/api/v1/events/%s/discovery", args[0])
		if dryRun {
			path += "?dryRun=true"
		}
		return call(http.MethodPost, path, nil)
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign <eventId>",
	Short: "Run an orphan assignment pass for an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(http.MethodPost, fmt.Sprintf("/api/v1/events/%s/assignments", args[0]), nil)
	},
}

var qualityCmd = &cobra.Command{
	Use:   "quality <eventId>",
	Short: "Show the data quality report for an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(http.MethodGet, fmt.Sprintf("/api/v1/events/%s/quality", args[0]), nil)
	},
}

var gatesCmd = &cobra.Command{
	Use:   "gates <eventId>",
	Short: "List the discovered gates of an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(http.MethodGet, fmt.Sprintf("/api/v1/events/%s/gates", args[0]), nil)
	},
}

var gateCmd = &cobra.Command{
	Use:   "gate <gateId>",
	Short: "Show one gate with its category bindings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(http.MethodGet, fmt.Sprintf("/api/v1/gates/%s", args[0]), nil)
	},
}

var gateStatusCmd = &cobra.Command{
	Use:   "gate-status <gateId> <status>",
	Short: "Update a gate's status (active, inactive or rejected)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"status": args[1], "updatedBy": actor}
		return call(http.MethodPatch, fmt.Sprintf("/api/v1/gates/%s", args[0]), body)
	},
}

var mergesCmd = &cobra.Command{
	Use:   "merges <eventId>",
	Short: "List merge suggestions for an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(http.MethodGet, fmt.Sprintf("/api/v1/events/%s/merge-suggestions", args[0]), nil)
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review <suggestionId> <status>",
	Short: "Review a merge suggestion (approved, rejected or applied)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"status": args[1], "reviewedBy": actor}
		return call(http.MethodPost, fmt.Sprintf("/api/v1/merge-suggestions/%s/review", args[0]), body)
	},
}

func call(method, path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, serverURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(raw))
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(), "Base URL of the gate discovery service")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "gatectl", "Actor name recorded in audit logs")
	discoverCmd.Flags().Bool("dry-run", false, "Preview the run without catalog writes")

	rootCmd.AddCommand(discoverCmd, assignCmd, qualityCmd, gatesCmd, gateCmd, gateStatusCmd, mergesCmd, reviewCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
