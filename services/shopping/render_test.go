package shopping

import (
	"bytes"
	"strings"
	"testing"

	"foodgram-backend/services/errs"
)

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"txt", FormatText, false},
		{"CSV", FormatCSV, false},
		{"pdf", "", true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseFormat(c.in)
			if c.wantErr {
				var verr *errs.ValidationError
				if err == nil {
					t.Fatal("Expected an error, got nil")
				}
				if _, ok := err.(*errs.ValidationError); !ok {
					t.Errorf("Expected %T, got %T", verr, err)
				}
				return
			}
			if err != nil || got != c.want {
				t.Errorf("Expected %s, got %s (%v)", c.want, got, err)
			}
		})
	}
}

func TestWriteText(t *testing.T) {
	lines := []Line{
		{Name: "eggs", MeasurementUnit: "pieces", Total: 5},
		{Name: "flour", MeasurementUnit: "g", Total: 500},
	}

	var buf bytes.Buffer
	if err := Render(&buf, FormatText, "alice", lines); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Shopping list\nUser: alice\n") {
		t.Errorf("Unexpected header: %q", out)
	}
	if !strings.HasSuffix(out, "eggs (pieces) — 5\nflour (g) — 500\n") {
		t.Errorf("Unexpected body: %q", out)
	}
}

func TestWriteTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, FormatText, "alice", nil); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(buf.String(), " — ") {
		t.Errorf("Expected zero ingredient lines, got %q", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	lines := []Line{
		{Name: "salt, sea", MeasurementUnit: "g", Total: 10},
	}
	var buf bytes.Buffer
	if err := Render(&buf, FormatCSV, "alice", lines); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := "name,measurement_unit,amount\n\"salt, sea\",g,10\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
	if FormatCSV.FileName() != "shopping_list.csv" {
		t.Errorf("Unexpected file name %s", FormatCSV.FileName())
	}
}
