package fpl

type standingsEnvelope struct {
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"league"`
	Standings *standingsPage `json:"standings"`
}

// Pointer fields stay nil when the key is absent, which separates a
// maintenance body like {"detail": "..."} from an empty league.
type standingsPage struct {
	HasNext bool           `json:"has_next"`
	Page    int            `json:"page"`
	Results *[]standingRow `json:"results"`
}

type standingRow struct {
	Entry      int64  `json:"entry"`
	PlayerName string `json:"player_name"`
	EntryName  string `json:"entry_name"`
	Rank       int    `json:"rank"`
	Total      int    `json:"total"`
}

type historyEnvelope struct {
	Current *[]historyEvent `json:"current"`
}

type historyEvent struct {
	Event              int `json:"event"`
	Points             int `json:"points"`
	TotalPoints        int `json:"total_points"`
	EventTransfersCost int `json:"event_transfers_cost"`
}

type bootstrapEnvelope struct {
	Events *[]bootstrapEvent `json:"events"`
}

type bootstrapEvent struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Finished bool   `json:"finished"`
}
