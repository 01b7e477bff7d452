package stager

import (
	"errors"
	"testing"
)

func TestStagedName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "processed import file",
			input: "20251201_224623_altaview_imap_20251201_224523.csv",
			want:  "altaview_imap_20251201_224523.csv",
		},
		{
			name:  "rest without further underscores",
			input: "20251201_224623_report.csv",
			want:  "report.csv",
		},
		{
			name:  "extra delimiters in payload preserved verbatim",
			input: "20251201_030000_a_b_c_d.csv",
			want:  "a_b_c_d.csv",
		},
		{
			name:  "empty rest segment",
			input: "20251201_224623_",
			want:  "",
		},
		{
			name:    "two segments",
			input:   "20251201_224623.csv",
			wantErr: true,
		},
		{
			name:    "one segment",
			input:   "report.csv",
			wantErr: true,
		},
		{
			name:    "empty name",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StagedName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("StagedName(%q) expected error, got %q", tt.input, got)
				}
				if !errors.Is(err, ErrNameFormat) {
					t.Errorf("error should wrap ErrNameFormat, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("StagedName(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("StagedName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
