package standing

import "time"

const (
	PointsPerWin  = 3
	PointsPerDraw = 1
)

// Standing is one entry's row in a tournament table. Every field is derived from
// match history and rewritten on each recompute.
type Standing struct {
	TournamentID     string
	EntryID          string
	Rank             int
	MatchesPlayed    int
	MatchesWon       int
	MatchesLost      int
	MatchesDrawn     int
	PointsFor        int
	PointsAgainst    int
	PointsDifference int
	TournamentPoints int
	Buchholz         float64
	SonnebornBerger  float64
	HeadToHeadWins   int
	AverageScore     float64
	HighestScore     int
	UpdatedAt        time.Time
}
