package player

import "testing"

func TestSkillLevelAtLeast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level SkillLevel
		min   SkillLevel
		want  bool
	}{
		{SkillBeginner, "", true},
		{"", "", true},
		{"", SkillBeginner, false},
		{SkillBeginner, SkillIntermediate, false},
		{SkillIntermediate, SkillIntermediate, true},
		{SkillProfessional, SkillAdvanced, true},
		{SkillAdvanced, SkillProfessional, false},
	}

	for _, tc := range tests {
		if got := tc.level.AtLeast(tc.min); got != tc.want {
			t.Fatalf("%q.AtLeast(%q) = %v, want %v", tc.level, tc.min, got, tc.want)
		}
	}
}

func TestParseSkillLevel(t *testing.T) {
	t.Parallel()

	level, err := ParseSkillLevel(" ADVANCED ")
	if err != nil || level != SkillAdvanced {
		t.Fatalf("unexpected parse result %q %v", level, err)
	}
	if _, err := ParseSkillLevel("grandmaster"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
