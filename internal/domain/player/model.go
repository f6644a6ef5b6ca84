package player

import (
	"fmt"
	"strings"
)

// SkillLevel is the self-declared playing level of an account.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillProfessional SkillLevel = "professional"
)

var skillOrder = map[SkillLevel]int{
	SkillBeginner:     1,
	SkillIntermediate: 2,
	SkillAdvanced:     3,
	SkillProfessional: 4,
}

// ParseSkillLevel accepts either case; empty input yields the empty level.
func ParseSkillLevel(raw string) (SkillLevel, error) {
	level := SkillLevel(strings.ToLower(strings.TrimSpace(raw)))
	if level == "" {
		return "", nil
	}
	if _, ok := skillOrder[level]; !ok {
		return "", fmt.Errorf("unknown skill level %q", raw)
	}
	return level, nil
}

func (s SkillLevel) Valid() bool {
	_, ok := skillOrder[s]
	return ok
}

// AtLeast reports whether s meets min. An empty min is always met; an empty or
// unknown s never meets a non-empty min.
func (s SkillLevel) AtLeast(min SkillLevel) bool {
	if min == "" {
		return true
	}
	return skillOrder[s] >= skillOrder[min] && skillOrder[s] > 0
}

// Profile is the identity-side view of a player needed by the tournament engine.
type Profile struct {
	ID          string
	DisplayName string
	SkillLevel  SkillLevel
}
