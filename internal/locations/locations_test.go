package locations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	r := Default()
	assert.Equal(t, 10, r.Len())
	assert.Equal(t, "London", r.Names()[0])
	assert.Equal(t, "Toronto", r.Names()[9])
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "London", []string{"London"}},
		{"trims", " London , New York ", []string{"London", "New York"}},
		{"keeps duplicates and order", "Paris,London,Paris", []string{"Paris", "London", "Paris"}},
		{"drops blanks", "London,, ,Tokyo,", []string{"London", "Tokyo"}},
		{"empty", "", []string{}},
		{"only separators", " , ,", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in).Names())
		})
	}
}

func TestNames_ReturnsCopy(t *testing.T) {
	r := New("London", "Tokyo")
	names := r.Names()
	names[0] = "Atlantis"
	assert.Equal(t, []string{"London", "Tokyo"}, r.Names())
}
