package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"plantpal-be/internal/dto"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	faint   = color.New(color.Faint)
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage PlantPal sessions",
}

var sessionNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new session and print its id",
	RunE:  runSessionNew,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current identification and transcript",
	RunE:  runSessionShow,
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the identification but keep the transcript",
	RunE:  runSessionReset,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the session",
	RunE:  runSessionDelete,
}

var identifyCmd = &cobra.Command{
	Use:   "identify <image>",
	Short: "Upload a photo and print the identification with care instructions",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

var chatCmd = &cobra.Command{
	Use:   "chat <message...>",
	Short: "Ask the plant care assistant a question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChat,
}

func runSessionNew(cmd *cobra.Command, _ []string) error {
	session, err := newAPIClient().createSession(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	success.Fprintf(out, "Session %s\n", session.Id)
	faint.Fprintf(out, "export PLANTPAL_SESSION=%s\n", session.Id)
	return nil
}

func runSessionShow(cmd *cobra.Command, _ []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	session, err := newAPIClient().getSession(cmd.Context(), sessionID)
	if err != nil {
		return err
	}

	printSession(cmd.OutOrStdout(), session)
	return nil
}

func runSessionReset(cmd *cobra.Command, _ []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	if _, err := newAPIClient().resetSession(cmd.Context(), sessionID); err != nil {
		return err
	}

	success.Fprintln(cmd.OutOrStdout(), "Session reset")
	return nil
}

func runSessionDelete(cmd *cobra.Command, _ []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	if err := newAPIClient().deleteSession(cmd.Context(), sessionID); err != nil {
		return err
	}

	success.Fprintln(cmd.OutOrStdout(), "Session deleted")
	return nil
}

func runIdentify(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	res, err := newAPIClient().identify(cmd.Context(), sessionID, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Identification == nil {
		warning.Fprintln(out, "The session was reset before the identification finished")
		return nil
	}
	if res.Error != nil {
		warning.Fprintf(out, "%s\n\n", res.Error.Message)
	}
	printIdentification(out, res.Identification)
	if res.OfflineMode {
		faint.Fprintln(out, "\nOffline mode: results come from bundled data")
	}
	return nil
}

func runChat(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	res, err := newAPIClient().chat(cmd.Context(), sessionID, strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Reply.Text)
	faint.Fprintf(out, "(%s)\n", res.Tier)
	return nil
}

func printSession(out io.Writer, session dto.SessionResponse) {
	heading.Fprintf(out, "Session %s\n", session.Id)
	if session.Analyzing {
		warning.Fprintln(out, "Identification in progress")
	}
	if session.Identification != nil {
		fmt.Fprintln(out)
		printIdentification(out, session.Identification)
	}

	fmt.Fprintln(out)
	heading.Fprintln(out, "Transcript")
	for _, msg := range session.Transcript {
		fmt.Fprintf(out, "[%d] %s: %s\n", msg.Id, msg.Sender, msg.Text)
	}
}

func printIdentification(out io.Writer, result *dto.IdentificationResponse) {
	heading.Fprintf(out, "%s (%s)\n", result.CommonName, result.ScientificName)
	fmt.Fprintf(out, "Confidence: %d%%  Source: %s\n", result.ConfidencePercent, result.SourceLabel)
	if result.Note != "" {
		faint.Fprintln(out, result.Note)
	}

	care := result.Care
	fmt.Fprintln(out)
	for _, row := range [][2]string{
		{"Watering", care.Watering},
		{"Light", care.Light},
		{"Humidity", care.Humidity},
		{"Temperature", care.Temperature},
		{"Soil", care.Soil},
		{"Fertilizer", care.Fertilizer},
		{"Repotting", care.Repotting},
	} {
		fmt.Fprintf(out, "%-12s %s\n", row[0]+":", row[1])
	}
	for _, tip := range care.Tips {
		fmt.Fprintf(out, "  - %s\n", tip)
	}
}
