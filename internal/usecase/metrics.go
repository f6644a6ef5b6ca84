package usecase

// Metrics receives engine events. Implementations must be safe for concurrent use.
type Metrics interface {
	TournamentCreated(format string)
	EntryRegistered(status string)
	BracketGenerated(format string, entries int)
	SubmissionRecorded(status string)
	MatchCompleted(format string)
	TournamentCompleted(format string)
}

type nopMetrics struct{}

func (nopMetrics) TournamentCreated(string)     {}
func (nopMetrics) EntryRegistered(string)       {}
func (nopMetrics) BracketGenerated(string, int) {}
func (nopMetrics) SubmissionRecorded(string)    {}
func (nopMetrics) MatchCompleted(string)        {}
func (nopMetrics) TournamentCompleted(string)   {}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
