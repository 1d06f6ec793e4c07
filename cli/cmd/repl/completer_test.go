package repl

import "testing"

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "lookup", 6, "lookup", 0, 6},
		{"argument", "cd geo", 6, "geo", 3, 6},
		{"qualified", "lookup geo::Po", 14, "geo::Po", 7, 14},
		{"template_argument", "resolve std::vector<Po", 22, "Po", 20, 22},
		{"after_comma", "resolve Sum<int, Po", 19, "Po", 17, 19},
		{"reference", "resolve const Po&", 16, "Po", 14, 16},
		{"empty_at_boundary", "cd ", 3, "", 3, 3},
		{"mid_word", "lookup", 3, "lookup", 0, 6},
		{"at_start", "ls", 0, "ls", 0, 2},
		{"cursor_past_end", "ls", 9, "ls", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
