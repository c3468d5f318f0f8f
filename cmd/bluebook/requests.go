package main

import (
	"errors"
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/mark3labs/bluebook/internal/requests"
	"github.com/mark3labs/bluebook/internal/template"
	"github.com/mark3labs/bluebook/internal/tui/theme"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var requestsFlags struct {
	dataDir string
	plain   bool
}

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect submitted renewal requests",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submitted requests, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runRequestsList,
}

var requestsShowCmd = &cobra.Command{
	Use:   "show <id|reference>",
	Short: "Show one request as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestsShow,
}

func init() {
	requestsCmd.AddCommand(requestsListCmd)
	requestsCmd.AddCommand(requestsShowCmd)

	requestsCmd.PersistentFlags().StringVar(&requestsFlags.dataDir, "data-dir", "", "Request log directory (default: from config)")
	requestsShowCmd.Flags().BoolVar(&requestsFlags.plain, "plain", false, "Print YAML without syntax highlighting")
}

func openRequests(cmd *cobra.Command) (*requests.Store, func(), error) {
	cfg, err := loadConfig(nil)
	if err != nil {
		return nil, nil, err
	}
	if requestsFlags.dataDir != "" {
		cfg.DataDir = requestsFlags.dataDir
	}
	return openStore(cmd.Context(), cfg)
}

func runRequestsList(cmd *cobra.Command, args []string) error {
	store, cleanup, err := openRequests(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	records, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	return printRecords(cmd.OutOrStdout(), records)
}

// printRecords writes records as a table.
func printRecords(w io.Writer, records []*requests.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No requests yet. Run 'bluebook renew' to submit one.")
		return err
	}

	s := theme.Current().S()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Muted).
		Headers("REFERENCE", "SUBMITTED", "NAME", "REGISTRATION", "PICKUP").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Label.Padding(0, 1)
			}
			return s.Body.Padding(0, 1)
		})

	for _, rec := range records {
		t.Row(
			rec.Reference,
			rec.SubmittedAt.Local().Format("2006-01-02 15:04"),
			rec.Request.PersonalInfo.FullName,
			rec.Request.VehicleDetails.VehicleRegistration,
			fmt.Sprintf("%s, %s", rec.Request.PickupDetails.PickupDate, rec.Request.PickupDetails.TimeSlot),
		)
	}

	_, err := lipgloss.Fprintln(w, t.String())
	return err
}

func runRequestsShow(cmd *cobra.Command, args []string) error {
	store, cleanup, err := openRequests(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rec, err := findRecord(cmd, store, args[0])
	if err != nil {
		return err
	}

	out, err := recordYAML(rec)
	if err != nil {
		return err
	}
	if !requestsFlags.plain {
		out = highlightYAML(out)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

// findRecord looks key up as an ID first and then as a reference.
func findRecord(cmd *cobra.Command, store *requests.Store, key string) (*requests.Record, error) {
	rec, err := store.Get(cmd.Context(), key)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, requests.ErrNotFound) {
		return nil, err
	}

	records, listErr := store.List(cmd.Context())
	if listErr != nil {
		return nil, listErr
	}
	for _, r := range records {
		if r.Reference == key {
			return r, nil
		}
	}
	return nil, err
}

// recordView adds the human-readable pickup date to a record for display.
type recordView struct {
	requests.Record `yaml:",inline"`
	PickupOn        string `yaml:"pickupOn"`
}

func recordYAML(rec *requests.Record) (string, error) {
	data, err := yaml.Marshal(recordView{
		Record:   *rec,
		PickupOn: template.FormatPickupDate(rec.Request.PickupDetails.PickupDate),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	return string(data), nil
}
