package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dalemusser/volunteerhub/internal/app/reconcile"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	addStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	removeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
)

// table writes rows aligned into columns under a styled header. Columns are
// laid out on plain text first so escape sequences never count as width.
func table(w io.Writer, header []string, rows [][]string) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	head, body, _ := strings.Cut(buf.String(), "\n")
	if _, err := fmt.Fprintln(w, headerStyle.Render(head)); err != nil {
		return err
	}
	_, err := io.WriteString(w, body)
	return err
}

// printPlan shows what a reconciliation would send, names resolved
// against the candidate list.
func printPlan(w io.Writer, eventName string, p reconcile.Plan, candidates []reconcile.Volunteer) {
	fmt.Fprintln(w, headerStyle.Render("Event: "+eventName))
	if p.Empty() {
		fmt.Fprintln(w, mutedStyle.Render("No changes."))
		return
	}
	for i, name := range reconcile.ResolveNames(p.ToAssign, candidates) {
		fmt.Fprintln(w, addStyle.Render("+ "+name+" ("+p.ToAssign[i]+")"))
	}
	for i, name := range reconcile.ResolveNames(p.ToUnassign, candidates) {
		fmt.Fprintln(w, removeStyle.Render("- "+name+" ("+p.ToUnassign[i]+")"))
	}
}

// commandError prefixes a reconcile error with its highlighted kind.
// The underlying error stays reachable through errors.As.
type commandError struct{ err error }

func (e commandError) Error() string {
	if k, ok := reconcile.KindOf(e.err); ok {
		return errorStyle.Render(string(k)) + ": " + e.err.Error()
	}
	return e.err.Error()
}

func (e commandError) Unwrap() error { return e.err }
