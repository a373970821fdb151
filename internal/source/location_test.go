package source

import "testing"

func TestLocString(t *testing.T) {
	tests := []struct {
		name string
		loc  Loc
		want string
	}{
		{"unknown", Loc{}, "location(unknown)"},
		{"no file", NewLoc("", 3, 7, 1), "3:7"},
		{"with file", NewLoc("a.rb", 10, 2, 4), "a.rb:10:2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}
		})
	}
}
