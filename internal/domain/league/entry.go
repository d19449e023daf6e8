package league

import "fmt"

// Entry is one manager's fantasy team inside a classic league.
type Entry struct {
	ID         int64
	PlayerName string
	TeamName   string
}

func (e Entry) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("entry id must be greater than zero")
	}

	return nil
}

// Label joins manager and team name for chart legends.
func (e Entry) Label() string {
	if e.TeamName == "" {
		return e.PlayerName
	}
	return e.PlayerName + " — " + e.TeamName
}
