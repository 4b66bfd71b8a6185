package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Lakeview Chess Club", "Lakeview Chess Club"},
		{"  Lakeview Chess Club  ", "Lakeview Chess Club"},
		{"", ""},
		{"   ", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHandle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"chessclub", "chessclub"},
		{"ChessClub", "chessclub"},
		{"  @ChessClub  ", "chessclub"},
		{"@", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Handle(tt.input)
			if got != tt.want {
				t.Errorf("Handle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAccessCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"4242", "4242"},
		{"  4242  ", "4242"},
		{"AbCd", "AbCd"}, // case preserved, codes compare exactly
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := AccessCode(tt.input)
			if got != tt.want {
				t.Errorf("AccessCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestVisibility(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"public", "public"},
		{"PRIVATE", "private"},
		{"  Public ", "public"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Visibility(tt.input)
			if got != tt.want {
				t.Errorf("Visibility(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
