// Package cli formats guidance results for terminal output.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/shepherd/internal/guidance"
	"github.com/hyperjump/shepherd/internal/models"
	"github.com/hyperjump/shepherd/pkg/utils"
)

// citationTextWidth bounds verse text in terminal output.
const citationTextWidth = 200

// OutputFormat is the format for ask output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// askResult is the JSON shape of one ask invocation.
type askResult struct {
	Status        string            `json:"status"`
	RejectReason  string            `json:"reject_reason,omitempty"`
	DegradeReason string            `json:"degrade_reason,omitempty"`
	SessionID     string            `json:"session_id,omitempty"`
	Language      string            `json:"language,omitempty"`
	Text          string            `json:"text,omitempty"`
	Citations     []models.Citation `json:"citations,omitempty"`
}

// WriteOutcome writes a guidance outcome to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteOutcome(w io.Writer, outcome guidance.Outcome, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(askResult{
			Status:        string(outcome.Status),
			RejectReason:  string(outcome.RejectReason),
			DegradeReason: string(outcome.DegradeReason),
			SessionID:     outcome.SessionID,
			Language:      outcome.Language,
			Text:          outcome.Text,
			Citations:     outcome.Citations,
		})
	default:
		writeOutcomeText(w, outcome)
		return nil
	}
}

func writeOutcomeText(w io.Writer, outcome guidance.Outcome) {
	switch outcome.Status {
	case guidance.StatusRejected:
		fmt.Fprintf(w, "request rejected: %s\n", outcome.RejectReason)
		return
	case guidance.StatusDegraded:
		fmt.Fprintf(w, "[degraded: %s]\n\n", outcome.DegradeReason)
	}
	fmt.Fprintf(w, "%s\n", outcome.Text)
	if len(outcome.Citations) > 0 {
		fmt.Fprintln(w)
		WriteCitations(w, outcome.Citations)
	}
}

// WriteCitations writes scored scripture references in text format, closest
// match first.
func WriteCitations(w io.Writer, citations []models.Citation) {
	fmt.Fprintln(w, "--- Citations ---")
	for i, c := range citations {
		fmt.Fprintf(w, "[%d] %s (distance %.4f)\n", i+1, c.Reference, c.Score)
		fmt.Fprintf(w, "    %s\n", utils.TruncateRunes(c.Text, citationTextWidth))
	}
}
