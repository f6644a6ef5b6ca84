package bracket

import "strconv"

// RoundName labels an elimination round by its distance from the final.
func RoundName(roundNumber, totalRounds int) string {
	switch totalRounds - roundNumber {
	case 0:
		return "Final"
	case 1:
		return "Semifinals"
	case 2:
		return "Quarterfinals"
	case 3:
		return "Round of 16"
	case 4:
		return "Round of 32"
	case 5:
		return "Round of 64"
	}
	return "Round " + strconv.Itoa(roundNumber)
}

func losersRoundName(roundNumber int) string {
	return "Losers Round " + strconv.Itoa(roundNumber)
}
