package models

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestFlexNumberUnmarshalJSON(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		wantSet   bool
		wantValue float64
		wantRaw   string
	}{
		{"plain number", `0.0042`, true, 0.0042, ""},
		{"integer", `1200000`, true, 1200000, ""},
		{"numeric string", `"1200000"`, true, 1200000, "1200000"},
		{"dollar prefixed", `"$0.0042"`, true, 0.0042, "$0.0042"},
		{"comma separated", `"1,200,000"`, true, 1200000, "1,200,000"},
		{"dollar and commas", `"$45,000,000"`, true, 45000000, "$45,000,000"},
		{"non-numeric string", `"N/A"`, false, 0, "N/A"},
		{"null", `null`, false, 0, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var f FlexNumber
			if err := json.Unmarshal([]byte(tc.input), &f); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.input, err)
			}
			if f.Set != tc.wantSet {
				t.Errorf("Set = %v, want %v", f.Set, tc.wantSet)
			}
			if f.Set && f.Value != tc.wantValue {
				t.Errorf("Value = %v, want %v", f.Value, tc.wantValue)
			}
			if f.Raw != tc.wantRaw {
				t.Errorf("Raw = %q, want %q", f.Raw, tc.wantRaw)
			}
		})
	}
}

func TestFlexNumberUnmarshalJSONRejectsObjects(t *testing.T) {
	var f FlexNumber
	if err := json.Unmarshal([]byte(`{"usd": 1}`), &f); err == nil {
		t.Error("expected error for object value")
	}
}

func TestFlexNumberPresent(t *testing.T) {
	if (FlexNumber{}).Present() {
		t.Error("zero value should not be present")
	}
	if !(FlexNumber{Value: 1, Set: true}).Present() {
		t.Error("parsed value should be present")
	}
	// A string that never parsed still counts as carried data.
	if !(FlexNumber{Raw: "N/A"}).Present() {
		t.Error("raw-only value should be present")
	}
}

func TestFlexNumberMarshalJSON(t *testing.T) {
	cases := []struct {
		f    FlexNumber
		want string
	}{
		{FlexNumber{Value: 0.5, Set: true}, `0.5`},
		{FlexNumber{Value: 1200000, Set: true, Raw: "1,200,000"}, `1200000`},
		{FlexNumber{Raw: "N/A"}, `"N/A"`},
		{FlexNumber{}, `null`},
	}

	for _, tc := range cases {
		got, err := json.Marshal(tc.f)
		if err != nil {
			t.Fatalf("marshal %+v: %v", tc.f, err)
		}
		if string(got) != tc.want {
			t.Errorf("marshal %+v = %s, want %s", tc.f, got, tc.want)
		}
	}
}

func TestFlexNumberBSONRoundTrip(t *testing.T) {
	type doc struct {
		Price     FlexNumber `bson:"price"`
		Volume    FlexNumber `bson:"volume"`
		MarketCap FlexNumber `bson:"market_cap"`
	}

	// Mixed representations, as collectors actually write them.
	raw, err := bson.Marshal(bson.M{
		"price":      0.0042,
		"volume":     int64(1200000),
		"market_cap": "$45,000,000",
	})
	if err != nil {
		t.Fatal(err)
	}

	var d doc
	if err := bson.Unmarshal(raw, &d); err != nil {
		t.Fatal(err)
	}

	if v, ok := d.Price.Float(); !ok || v != 0.0042 {
		t.Errorf("price = %v (%v), want 0.0042", v, ok)
	}
	if v, ok := d.Volume.Float(); !ok || v != 1200000 {
		t.Errorf("volume = %v (%v), want 1200000", v, ok)
	}
	if v, ok := d.MarketCap.Float(); !ok || v != 45000000 {
		t.Errorf("market_cap = %v (%v), want 45000000", v, ok)
	}
	if d.MarketCap.Raw != "$45,000,000" {
		t.Errorf("market_cap raw = %q, want original string preserved", d.MarketCap.Raw)
	}
}
