package gameweek

// Record is one entry's result for one gameweek.
type Record struct {
	EntryID      int64
	Gameweek     int
	Points       int
	TransferCost int
	TotalPoints  int
}

// Net is the gameweek score after the transfer penalty.
func (r Record) Net() int {
	return r.Points - r.TransferCost
}
