package money

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"Rs. 1,250.50", 1250.50},
		{"Rs.50", 50},
		{"250", 250},
		{"  1,000  ", 1000},
		{"price: 12.5 only", 12.5},
		{"", 0},
		{"free", 0},
		{"Rs.", 0},
	}

	for _, tc := range cases {
		got := Parse(tc.raw).InexactFloat64()
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestAmountUnmarshalJSON(t *testing.T) {
	cases := []struct {
		body string
		want float64
	}{
		{`{"price": 50}`, 50},
		{`{"price": 12.75}`, 12.75},
		{`{"price": "Rs.50"}`, 50},
		{`{"price": "1,250.50"}`, 1250.50},
		{`{"price": null}`, 0},
		{`{"price": "n/a"}`, 0},
		{`{}`, 0},
	}

	for _, tc := range cases {
		var payload struct {
			Price Amount `json:"price"`
		}
		if err := json.Unmarshal([]byte(tc.body), &payload); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.body, err)
		}
		if got := payload.Price.InexactFloat64(); got != tc.want {
			t.Errorf("price from %s = %v, want %v", tc.body, got, tc.want)
		}
	}
}

func TestAmountMarshalJSON(t *testing.T) {
	out, err := json.Marshal(FromFloat(100))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "100" {
		t.Errorf("marshal = %s, want 100", out)
	}
}
