package downloader

import "testing"

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name      string
		out       string
		wantTitle string
		wantPath  string
		wantErr   bool
	}{
		{
			name:      "title then path",
			out:       "Lecture 3 Systems\n/downloads/Lecture_3_Systems_1756500000.m4a\n",
			wantTitle: "Lecture 3 Systems",
			wantPath:  "/downloads/Lecture_3_Systems_1756500000.m4a",
		},
		{
			name:      "extra blank lines",
			out:       "\nTitle\n\n/downloads/a.m4a\n\n",
			wantTitle: "Title",
			wantPath:  "/downloads/a.m4a",
		},
		{
			name:    "missing path line",
			out:     "Title only\n",
			wantErr: true,
		},
		{
			name:    "empty output",
			out:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOutput(tt.out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseOutput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.AudioPath != tt.wantPath {
				t.Errorf("path = %q, want %q", got.AudioPath, tt.wantPath)
			}
		})
	}
}
