package models

import "testing"

func TestWeatherRecord_ValuesMatchColumns(t *testing.T) {
	r := WeatherRecord{
		City:         "London",
		Country:      "United Kingdom",
		TemperatureC: 12.5,
		TemperatureF: 54.5,
		Condition:    "Partly cloudy",
		Humidity:     82,
		WindKph:      15.1,
		PressureMb:   1012,
		FeelsLikeC:   10.9,
		FetchTime:    "2025-09-05 14:03:11",
	}

	got := r.Values()
	if len(got) != len(Columns) {
		t.Fatalf("len(Values()) = %d, want %d", len(got), len(Columns))
	}
	want := []string{"London", "United Kingdom", "12.5", "54.5", "Partly cloudy", "82", "15.1", "1012", "10.9", "2025-09-05 14:03:11"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Values()[%d] (%s) = %q, want %q", i, Columns[i], got[i], want[i])
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-3.2, "-3.2"},
		{1013, "1013"},
		{29.9, "29.9"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
