package money

import "testing"

func TestSubtotal(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		qty   int
		want  float64
	}{
		{"single unit", 189.9, 1, 189.9},
		{"float drift removed", 0.1, 3, 0.3},
		{"several units", 249.35, 4, 997.4},
		{"zero price", 0, 5, 0},
		{"half cent rounds up", 1.005, 1, 1.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Subtotal(tt.price, tt.qty); got != tt.want {
				t.Errorf("Subtotal(%v, %d) = %v, want %v", tt.price, tt.qty, got, tt.want)
			}
		})
	}
}

func TestSum(t *testing.T) {
	if got := Sum(0.1, 0.2, 0.3); got != 0.6 {
		t.Errorf("Sum = %v, want 0.6", got)
	}
	if got := Sum(); got != 0 {
		t.Errorf("Sum() = %v, want 0", got)
	}
}

func TestFormatting(t *testing.T) {
	if got := Format2(1234.5); got != "1234.50" {
		t.Errorf("Format2 = %q", got)
	}
	if got := Format2(0); got != "0.00" {
		t.Errorf("Format2(0) = %q", got)
	}
	if got := FormatComma1(123.5); got != "123,5" {
		t.Errorf("FormatComma1 = %q", got)
	}
	if got := FormatComma1(80); got != "80,0" {
		t.Errorf("FormatComma1(80) = %q", got)
	}
}

func TestParse(t *testing.T) {
	if v, err := Parse(" 12.50 "); err != nil || v != 12.5 {
		t.Errorf("Parse = %v, %v", v, err)
	}
	if v, err := Parse(""); err != nil || v != 0 {
		t.Errorf("Parse(empty) = %v, %v", v, err)
	}
	if _, err := Parse("abc"); err == nil {
		t.Error("Parse(abc) expected error")
	}
}
