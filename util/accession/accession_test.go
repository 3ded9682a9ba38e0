package accession

import (
	"testing"

	"github.com/Vaibhavp809/libsync-sub001/model"
)

func TestNormalize_Padding(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1", "000001"},
		{"42", "000042"},
		{"000042", "000042"},
		{"123456", "123456"},
		{"123456789", "123456789"}, // beyond width: unpadded, untruncated
		{"ACC-42", "000042"},
		{" 7 / B ", "000007"},
		{"no.0012", "000012"},
	}
	for _, c := range cases {
		got, err := Normalize(c.in)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Normalize(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_Empty(t *testing.T) {
	for _, in := range []string{"", "abc", "---", "  "} {
		if _, err := Normalize(in); err == nil {
			t.Fatalf("Normalize(%q): expected error", in)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"1", "A9", "123456789", "0005"} {
		once, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", in, err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", once, err)
		}
		if once != twice {
			t.Fatalf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestResolveCondition(t *testing.T) {
	cases := []struct {
		in   string
		want model.Condition
	}{
		{"ok", model.ConditionVerified},
		{"", model.ConditionVerified},
		{"present", model.ConditionVerified},
		{"Damaged", model.ConditionDamaged},
		{"water damage on spine", model.ConditionDamaged},
		{"DMG", model.ConditionDamaged},
		{"lost", model.ConditionLost},
		{"MISSING from shelf", model.ConditionLost},
	}
	for _, c := range cases {
		if got := ResolveCondition(c.in); got != c.want {
			t.Fatalf("ResolveCondition(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}
