package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/shepherd/internal/guidance"
	"github.com/hyperjump/shepherd/internal/models"
)

func sampleOutcome() guidance.Outcome {
	return guidance.Outcome{
		Status:    guidance.StatusSuccess,
		SessionID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		Language:  "english",
		Text:      "Bring your worries to God in prayer.",
		Citations: []models.Citation{
			{Reference: "Philippians 4:6-7", Text: "Do not be anxious about anything.", Score: 0.8123},
		},
	}
}

func TestWriteOutcome_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutcome(&buf, sampleOutcome(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var out struct {
		Status    string            `json:"status"`
		Language  string            `json:"language"`
		Text      string            `json:"text"`
		Citations []models.Citation `json:"citations"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if out.Status != "success" {
		t.Errorf("status: got %q", out.Status)
	}
	if out.Language != "english" {
		t.Errorf("language: got %q", out.Language)
	}
	if len(out.Citations) != 1 || out.Citations[0].Reference != "Philippians 4:6-7" {
		t.Errorf("citations: got %+v", out.Citations)
	}
}

func TestWriteOutcome_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutcome(&buf, sampleOutcome(), OutputText); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, "Bring your worries to God in prayer.") {
		t.Errorf("missing response text:\n%s", got)
	}
	if !strings.Contains(got, "Philippians 4:6-7") {
		t.Errorf("missing citation reference:\n%s", got)
	}
	if !strings.Contains(got, "0.8123") {
		t.Errorf("missing citation distance:\n%s", got)
	}
}

func TestWriteOutcome_TextDegraded(t *testing.T) {
	outcome := sampleOutcome()
	outcome.Status = guidance.StatusDegraded
	outcome.DegradeReason = guidance.DegradeTimeout
	outcome.Citations = nil

	var buf bytes.Buffer
	if err := WriteOutcome(&buf, outcome, OutputText); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, "degraded: generation_timeout") {
		t.Errorf("missing degrade marker:\n%s", got)
	}
	if strings.Contains(got, "Citations") {
		t.Errorf("degraded output should not list citations:\n%s", got)
	}
}

func TestWriteOutcome_TextRejected(t *testing.T) {
	outcome := guidance.Outcome{Status: guidance.StatusRejected, RejectReason: guidance.RejectEmptyInput}

	var buf bytes.Buffer
	if err := WriteOutcome(&buf, outcome, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "rejected: empty_input") {
		t.Errorf("got:\n%s", buf.String())
	}
}

func TestWriteCitations(t *testing.T) {
	citations := []models.Citation{
		{Reference: "Matthew 11:28", Text: "Come to me, all you who are weary.", Score: 0.5},
		{Reference: "Psalm 145:18", Text: "The Lord is near to all who call on him.", Score: 1.25},
	}
	var buf bytes.Buffer
	WriteCitations(&buf, citations)
	got := buf.String()
	if !strings.Contains(got, "[1] Matthew 11:28") || !strings.Contains(got, "[2] Psalm 145:18") {
		t.Errorf("citations not numbered in order:\n%s", got)
	}
}
