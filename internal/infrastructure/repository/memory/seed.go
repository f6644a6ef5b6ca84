package memory

import "github.com/riskibarqy/darts-tournament/internal/domain/player"

// SeedProfiles is the player set loaded when the directory runs in memory mode.
func SeedProfiles() []player.Profile {
	return []player.Profile{
		{ID: "player-amelia", DisplayName: "Amelia Hart", SkillLevel: player.SkillProfessional},
		{ID: "player-bruno", DisplayName: "Bruno Castell", SkillLevel: player.SkillAdvanced},
		{ID: "player-chen", DisplayName: "Chen Wei", SkillLevel: player.SkillAdvanced},
		{ID: "player-dewi", DisplayName: "Dewi Lestari", SkillLevel: player.SkillIntermediate},
		{ID: "player-emre", DisplayName: "Emre Yilmaz", SkillLevel: player.SkillIntermediate},
		{ID: "player-fiona", DisplayName: "Fiona Byrne", SkillLevel: player.SkillBeginner},
		{ID: "player-gabe", DisplayName: "Gabe Moreno", SkillLevel: player.SkillBeginner},
		{ID: "player-hana", DisplayName: "Hana Sato", SkillLevel: player.SkillProfessional},
	}
}
