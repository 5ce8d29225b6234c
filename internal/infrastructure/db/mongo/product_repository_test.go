package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNameSearchFilter_EscapesMetacharacters(t *testing.T) {
	cases := []struct {
		name    string
		pattern string
	}{
		{"laptop", "laptop"},
		{"c++", `c\+\+`},
		{"50% off (today)", `50% off \(today\)`},
		{".*", `\.\*`},
		{"a|b", `a\|b`},
	}

	for _, tc := range cases {
		filter := nameSearchFilter(tc.name)
		rx, ok := filter["name"].(primitive.Regex)
		if !ok {
			t.Fatalf("filter for %q is not a regex: %#v", tc.name, filter["name"])
		}
		if rx.Pattern != tc.pattern {
			t.Errorf("pattern for %q = %q, want %q", tc.name, rx.Pattern, tc.pattern)
		}
		if rx.Options != "i" {
			t.Errorf("options for %q = %q, want %q", tc.name, rx.Options, "i")
		}
	}
}
