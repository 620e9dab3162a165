package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/apiclient"
	"github.com/dalemusser/volunteerhub/internal/app/reconcile"
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrUnknownEvent is returned when an event id is not in the server's list.
var ErrUnknownEvent = errors.New("unknown event")

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List events",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

var candidatesCmd = &cobra.Command{
	Use:   "candidates <event-id>",
	Short: "List volunteers whose skills match an event, best match first",
	Args:  cobra.ExactArgs(1),
	RunE:  runCandidates,
}

var assignmentsCmd = &cobra.Command{
	Use:   "assignments [event-id]",
	Short: "List assignments, optionally for one event",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAssignments,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <event-id>",
	Short: "Change an event's assigned volunteers",
	Long: `Starts from the event's current assignments, applies the selection
changes given by flags, and commits the difference as one assign batch and
one unassign batch.

Examples:
  matchctl reconcile 665f... --toggle 6660... --toggle 6661...
  matchctl reconcile 665f... --all --dry-run
  matchctl reconcile 665f... --set 6660...,6661... --server-side`,
	Args: cobra.ExactArgs(1),
	RunE: runReconcile,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token signed with the server's session key",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the user the configured token belongs to",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

// reconcile flags
var (
	toggleIDs  []string
	setIDs     []string
	toggleAll  bool
	dryRun     bool
	serverSide bool
)

// token flags
var (
	tokenUserID string
	tokenName   string
	tokenEmail  string
	tokenRole   string
	tokenTTL    time.Duration
)

func addCommands(root *cobra.Command) {
	reconcileCmd.Flags().StringSliceVar(&toggleIDs, "toggle", nil, "Volunteer id to add or remove (repeatable)")
	reconcileCmd.Flags().StringSliceVar(&setIDs, "set", nil, "Replace the selection with exactly these volunteer ids")
	reconcileCmd.Flags().BoolVar(&toggleAll, "all", false, "Toggle select-all over the candidate list")
	reconcileCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without committing")
	reconcileCmd.Flags().BoolVar(&serverSide, "server-side", false, "Let the server run the reconciliation")
	reconcileCmd.MarkFlagsMutuallyExclusive("set", "toggle")
	reconcileCmd.MarkFlagsMutuallyExclusive("set", "all")

	tokenCmd.Flags().StringVar(&tokenUserID, "user-id", "", "User id (required)")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "Username")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "admin", "Role: admin or volunteer")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime (must not exceed the server's session_max_age)")
	_ = tokenCmd.MarkFlagRequired("user-id")

	root.AddCommand(eventsCmd, candidatesCmd, assignmentsCmd, reconcileCmd, tokenCmd, whoamiCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	evs, err := client.Events(ctx)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	if len(evs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No events."))
		return nil
	}
	rows := make([][]string, 0, len(evs))
	for _, e := range evs {
		rows = append(rows, []string{e.ID, e.Name, e.Date, e.Urgency, e.Location, strings.Join(e.RequiredSkills, ", ")})
	}
	return table(cmd.OutOrStdout(), []string{"ID", "NAME", "DATE", "URGENCY", "LOCATION", "SKILLS"}, rows)
}

func runCandidates(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	cands, err := client.Candidates(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to list candidates: %w", err)
	}
	if len(cands) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No matching volunteers."))
		return nil
	}
	rows := make([][]string, 0, len(cands))
	for _, c := range cands {
		rows = append(rows, []string{c.ID, c.Name, c.FullName, c.Email, strings.Join(c.MatchedSkills, ", ")})
	}
	return table(cmd.OutOrStdout(), []string{"ID", "USERNAME", "FULL NAME", "EMAIL", "MATCHED"}, rows)
}

func runAssignments(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	rows, err := client.Matched(ctx)
	if err != nil {
		return fmt.Errorf("failed to list assignments: %w", err)
	}
	out := make([][]string, 0, len(rows))
	for _, m := range rows {
		if len(args) == 1 && m.EventID != args[0] {
			continue
		}
		out = append(out, []string{m.EventName, m.VolunteerName, m.EventID, m.VolunteerID})
	}
	if len(out) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No assignments."))
		return nil
	}
	return table(cmd.OutOrStdout(), []string{"EVENT", "VOLUNTEER", "EVENT ID", "VOLUNTEER ID"}, out)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	eventID := args[0]
	out := cmd.OutOrStdout()

	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	// Events and assignments load together, like the editor's first paint.
	snap, err := client.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	eventName := ""
	for _, e := range snap.Events {
		if e.ID == eventID {
			eventName = e.Name
			break
		}
	}
	if eventName == "" {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, eventID)
	}

	rec := reconcile.New(client, logger)
	req, err := rec.Prepare(ctx, eventID)
	if err != nil {
		return commandError{err}
	}

	sel := reconcile.NewSelection(req.Current...)
	switch {
	case cmd.Flags().Changed("set"):
		sel = reconcile.NewSelection(setIDs...)
	default:
		if toggleAll {
			sel.ToggleAll(req.Candidates)
		}
		for _, id := range toggleIDs {
			sel.Toggle(strings.TrimSpace(id))
		}
	}
	req.Selected = sel.IDs()

	plan := reconcile.Diff(eventID, req.Current, req.Selected)
	printPlan(out, eventName, plan, req.Candidates)
	if dryRun || plan.Empty() {
		return nil
	}

	if serverSide {
		res, err := client.ServerReconcile(ctx, eventID, req.Current, req.Selected)
		if err != nil {
			return commandError{err}
		}
		fmt.Fprintf(out, "%s (run %s)\n", headerStyle.Render(res.State), res.RunID)
		return nil
	}

	res, err := rec.Reconcile(ctx, req)
	if err != nil {
		logger.Debug("reconcile failed", zap.String("run_id", res.RunID), zap.Error(err))
		fmt.Fprintf(out, "%s (run %s)\n", headerStyle.Render(string(res.State)), res.RunID)
		return commandError{err}
	}
	fmt.Fprintf(out, "%s (run %s)\n", headerStyle.Render(string(res.State)), res.RunID)
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	if cfg.SessionKey == "" {
		return errors.New("session key is required (session_key in config or MATCHCTL_SESSION_KEY)")
	}
	sm, err := auth.NewSessionManager(cfg.SessionKey, "", "", tokenTTL, false, logger)
	if err != nil {
		return err
	}
	tok, err := sm.IssueToken(auth.SessionUser{
		ID:    tokenUserID,
		Name:  tokenName,
		Email: tokenEmail,
		Role:  tokenRole,
	})
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	name, role, err := client.Whoami(ctx)
	if apiclient.StatusOf(err) == http.StatusUnauthorized {
		return errors.New("not signed in: token missing, expired or signed with another key")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", name, role)
	return nil
}
