// Command plantpal is a terminal client for the PlantPal REST API.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	serverURL string
	sessionID string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "plantpal",
	Short: "Identify plants and chat about plant care from the terminal",
	Long: `plantpal talks to a running PlantPal server.

Start a session, upload a photo to identify it, then ask care questions:
  plantpal session new
  plantpal identify ./monstera.jpg --session <id>
  plantpal chat "why are the leaves turning yellow?" --session <id>

The session id can also be set with PLANTPAL_SESSION.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("PLANTPAL_SERVER", "http://localhost:3000"), "PlantPal server base URL")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", os.Getenv("PLANTPAL_SESSION"), "session id")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "request timeout")

	sessionCmd.AddCommand(sessionNewCmd, sessionShowCmd, sessionResetCmd, sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd, identifyCmd, chatCmd)
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func requireSession() error {
	if sessionID == "" {
		return fmt.Errorf("no session: pass --session or set PLANTPAL_SESSION")
	}
	return nil
}
