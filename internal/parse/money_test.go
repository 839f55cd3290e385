package parse

import "testing"

func TestMoney(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"$(85.00)", -85.00},
		{"$1,234.50", 1234.50},
		{"$20.00", 20.00},
		{"-42.5", -42.5},
		{"(12)", -12},
		{"0", 0},
		{"", 0},
		{"n/a", 0},
		{"  $3.25  ", 3.25},
		{" $7.10 ", 7.10},
	}
	for _, c := range cases {
		if got := Money(c.in); got != c.want {
			t.Errorf("Money(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestInteger(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"2", 2},
		{"1,000", 1000},
		{"3.0", 3},
		{"-4", -4},
		{"", 0},
		{"abc", 0},
	}
	for _, c := range cases {
		if got := Integer(c.in); got != c.want {
			t.Errorf("Integer(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
