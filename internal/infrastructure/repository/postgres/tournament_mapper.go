package postgres

import (
	"maps"

	"github.com/riskibarqy/darts-tournament/internal/domain/bracket"
	"github.com/riskibarqy/darts-tournament/internal/domain/entry"
	"github.com/riskibarqy/darts-tournament/internal/domain/player"
	"github.com/riskibarqy/darts-tournament/internal/domain/rating"
	"github.com/riskibarqy/darts-tournament/internal/domain/standing"
	"github.com/riskibarqy/darts-tournament/internal/domain/submission"
	"github.com/riskibarqy/darts-tournament/internal/domain/tournament"
)

func toTournamentModel(t tournament.Tournament) tournamentTableModel {
	return tournamentTableModel{
		ID:                      t.ID,
		Name:                    t.Name,
		Description:             t.Description,
		OrganizerID:             t.OrganizerID,
		Format:                  string(t.Format),
		GameMode:                string(t.GameMode),
		GameSettings:            gameSettings(maps.Clone(t.GameSettings)),
		MaxParticipants:         t.MaxParticipants,
		MinParticipants:         t.MinParticipants,
		RegistrationStart:       t.RegistrationStart.UTC(),
		RegistrationEnd:         t.RegistrationEnd.UTC(),
		StartTime:               t.StartTime.UTC(),
		EstimatedDurationHours:  t.EstimatedDurationHours,
		Status:                  string(t.Status),
		CurrentRound:            t.CurrentRound,
		RegistrationPassword:    nullString(t.RegistrationPassword),
		MinSkillLevel:           nullString(string(t.MinSkillLevel)),
		IsPrivate:               t.IsPrivate,
		AllowPublicRegistration: t.AllowPublicRegistration,
		RequireApproval:         t.RequireApproval,
		ScorePasscode:           nullString(t.ScorePasscode),
		AllowScoreSubmission:    t.AllowScoreSubmission,
		IsFeatured:              t.IsFeatured,
		PrizePool:               t.PrizePool,
		PrizeDescription:        t.PrizeDescription,
		SwissRounds:             t.SwissRounds,
		CreatedAt:               t.CreatedAt.UTC(),
		UpdatedAt:               t.UpdatedAt.UTC(),
	}
}

func (m tournamentTableModel) toDomain() tournament.Tournament {
	return tournament.Tournament{
		ID:                      m.ID,
		Name:                    m.Name,
		Description:             m.Description,
		OrganizerID:             m.OrganizerID,
		Format:                  tournament.Format(m.Format),
		GameMode:                tournament.GameMode(m.GameMode),
		GameSettings:            map[string]string(m.GameSettings),
		MaxParticipants:         m.MaxParticipants,
		MinParticipants:         m.MinParticipants,
		RegistrationStart:       m.RegistrationStart,
		RegistrationEnd:         m.RegistrationEnd,
		StartTime:               m.StartTime,
		EstimatedDurationHours:  m.EstimatedDurationHours,
		Status:                  tournament.Status(m.Status),
		CurrentRound:            m.CurrentRound,
		RegistrationPassword:    m.RegistrationPassword.String,
		MinSkillLevel:           player.SkillLevel(m.MinSkillLevel.String),
		IsPrivate:               m.IsPrivate,
		AllowPublicRegistration: m.AllowPublicRegistration,
		RequireApproval:         m.RequireApproval,
		ScorePasscode:           m.ScorePasscode.String,
		AllowScoreSubmission:    m.AllowScoreSubmission,
		IsFeatured:              m.IsFeatured,
		PrizePool:               m.PrizePool,
		PrizeDescription:        m.PrizeDescription,
		SwissRounds:             m.SwissRounds,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

func toEntryModel(e entry.Entry) entryTableModel {
	return entryTableModel{
		ID:             e.ID,
		TournamentID:   e.TournamentID,
		PlayerID:       e.PlayerID,
		DisplayName:    e.DisplayName,
		Status:         string(e.Status),
		SeedNumber:     nullIntPtr(e.SeedNumber),
		Wins:           e.Wins,
		Losses:         e.Losses,
		Points:         e.Points,
		FinalPlacement: nullIntPtr(e.FinalPlacement),
		TotalScore:     e.TotalScore,
		RatingChange:   e.RatingChange,
		RegisteredAt:   e.RegisteredAt.UTC(),
		ApprovedAt:     e.ApprovedAt,
	}
}

func (m entryTableModel) toDomain() entry.Entry {
	return entry.Entry{
		ID:             m.ID,
		TournamentID:   m.TournamentID,
		PlayerID:       m.PlayerID,
		DisplayName:    m.DisplayName,
		Status:         entry.Status(m.Status),
		SeedNumber:     intPtrFromNull(m.SeedNumber),
		Wins:           m.Wins,
		Losses:         m.Losses,
		Points:         m.Points,
		FinalPlacement: intPtrFromNull(m.FinalPlacement),
		TotalScore:     m.TotalScore,
		RatingChange:   m.RatingChange,
		RegisteredAt:   m.RegisteredAt,
		ApprovedAt:     m.ApprovedAt,
	}
}

func toRoundModel(r bracket.Round) roundTableModel {
	return roundTableModel{
		ID:              r.ID,
		TournamentID:    r.TournamentID,
		RoundNumber:     r.RoundNumber,
		Name:            r.Name,
		IsLosersBracket: r.IsLosersBracket,
		StartedAt:       r.StartedAt,
		CompletedAt:     r.CompletedAt,
	}
}

func (m roundTableModel) toDomain() bracket.Round {
	return bracket.Round{
		ID:              m.ID,
		TournamentID:    m.TournamentID,
		RoundNumber:     m.RoundNumber,
		Name:            m.Name,
		IsLosersBracket: m.IsLosersBracket,
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
	}
}

func toMatchModel(m bracket.Match) matchTableModel {
	return matchTableModel{
		ID:              m.ID,
		TournamentID:    m.TournamentID,
		RoundID:         m.RoundID,
		RoundNumber:     m.RoundNumber,
		IsLosersBracket: m.IsLosersBracket,
		MatchNumber:     m.MatchNumber,
		Player1EntryID:  nullString(m.Player1EntryID),
		Player2EntryID:  nullString(m.Player2EntryID),
		NextMatchID:     nullString(m.NextMatchID),
		Status:          string(m.Status),
		WinnerEntryID:   nullString(m.WinnerEntryID),
		Player1Score:    m.Player1Score,
		Player2Score:    m.Player2Score,
		GameID:          nullString(m.GameID),
		ScheduledTime:   m.ScheduledTime,
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
	}
}

func (m matchTableModel) toDomain() bracket.Match {
	return bracket.Match{
		ID:              m.ID,
		TournamentID:    m.TournamentID,
		RoundID:         m.RoundID,
		RoundNumber:     m.RoundNumber,
		IsLosersBracket: m.IsLosersBracket,
		MatchNumber:     m.MatchNumber,
		Player1EntryID:  m.Player1EntryID.String,
		Player2EntryID:  m.Player2EntryID.String,
		NextMatchID:     m.NextMatchID.String,
		Status:          bracket.MatchStatus(m.Status),
		WinnerEntryID:   m.WinnerEntryID.String,
		Player1Score:    m.Player1Score,
		Player2Score:    m.Player2Score,
		GameID:          m.GameID.String,
		ScheduledTime:   m.ScheduledTime,
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
	}
}

func toStandingModel(s standing.Standing) standingTableModel {
	return standingTableModel{
		TournamentID:     s.TournamentID,
		EntryID:          s.EntryID,
		Rank:             s.Rank,
		MatchesPlayed:    s.MatchesPlayed,
		MatchesWon:       s.MatchesWon,
		MatchesLost:      s.MatchesLost,
		MatchesDrawn:     s.MatchesDrawn,
		PointsFor:        s.PointsFor,
		PointsAgainst:    s.PointsAgainst,
		PointsDifference: s.PointsDifference,
		TournamentPoints: s.TournamentPoints,
		Buchholz:         s.Buchholz,
		SonnebornBerger:  s.SonnebornBerger,
		HeadToHeadWins:   s.HeadToHeadWins,
		AverageScore:     s.AverageScore,
		HighestScore:     s.HighestScore,
		UpdatedAt:        s.UpdatedAt.UTC(),
	}
}

func (m standingTableModel) toDomain() standing.Standing {
	return standing.Standing{
		TournamentID:     m.TournamentID,
		EntryID:          m.EntryID,
		Rank:             m.Rank,
		MatchesPlayed:    m.MatchesPlayed,
		MatchesWon:       m.MatchesWon,
		MatchesLost:      m.MatchesLost,
		MatchesDrawn:     m.MatchesDrawn,
		PointsFor:        m.PointsFor,
		PointsAgainst:    m.PointsAgainst,
		PointsDifference: m.PointsDifference,
		TournamentPoints: m.TournamentPoints,
		Buchholz:         m.Buchholz,
		SonnebornBerger:  m.SonnebornBerger,
		HeadToHeadWins:   m.HeadToHeadWins,
		AverageScore:     m.AverageScore,
		HighestScore:     m.HighestScore,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toSubmissionModel(s submission.Submission) submissionTableModel {
	return submissionTableModel{
		ID:            s.ID,
		TournamentID:  s.TournamentID,
		MatchID:       s.MatchID,
		SubmittedBy:   s.SubmittedBy,
		Player1Score:  s.Player1Score,
		Player2Score:  s.Player2Score,
		WinnerEntryID: nullString(s.WinnerEntryID),
		Status:        string(s.Status),
		PasscodeUsed:  nullString(s.PasscodeUsed),
		VerifiedBy:    nullString(s.VerifiedBy),
		Notes:         s.Notes,
		SubmittedAt:   s.SubmittedAt.UTC(),
		VerifiedAt:    s.VerifiedAt,
	}
}

func (m submissionTableModel) toDomain() submission.Submission {
	return submission.Submission{
		ID:            m.ID,
		TournamentID:  m.TournamentID,
		MatchID:       m.MatchID,
		SubmittedBy:   m.SubmittedBy,
		Player1Score:  m.Player1Score,
		Player2Score:  m.Player2Score,
		WinnerEntryID: m.WinnerEntryID.String,
		Status:        submission.Status(m.Status),
		PasscodeUsed:  m.PasscodeUsed.String,
		VerifiedBy:    m.VerifiedBy.String,
		Notes:         m.Notes,
		SubmittedAt:   m.SubmittedAt,
		VerifiedAt:    m.VerifiedAt,
	}
}

func toRatingModel(r rating.Rating) ratingTableModel {
	return ratingTableModel{
		PlayerID:              r.PlayerID,
		Value:                 r.Value,
		Peak:                  r.Peak,
		Lowest:                r.Lowest,
		Tier:                  string(r.Tier),
		TournamentsPlayed:     r.TournamentsPlayed,
		TournamentsWon:        r.TournamentsWon,
		TournamentsRunnerUp:   r.TournamentsRunnerUp,
		TournamentsTop4:       r.TournamentsTop4,
		MatchesWon:            r.MatchesWon,
		MatchesLost:           r.MatchesLost,
		TotalTournamentPoints: r.TotalTournamentPoints,
		LastTournamentAt:      r.LastTournamentAt,
		UpdatedAt:             r.UpdatedAt.UTC(),
	}
}

func (m ratingTableModel) toDomain() rating.Rating {
	return rating.Rating{
		PlayerID:              m.PlayerID,
		Value:                 m.Value,
		Peak:                  m.Peak,
		Lowest:                m.Lowest,
		Tier:                  rating.Tier(m.Tier),
		TournamentsPlayed:     m.TournamentsPlayed,
		TournamentsWon:        m.TournamentsWon,
		TournamentsRunnerUp:   m.TournamentsRunnerUp,
		TournamentsTop4:       m.TournamentsTop4,
		MatchesWon:            m.MatchesWon,
		MatchesLost:           m.MatchesLost,
		TotalTournamentPoints: m.TotalTournamentPoints,
		LastTournamentAt:      m.LastTournamentAt,
		UpdatedAt:             m.UpdatedAt,
	}
}
