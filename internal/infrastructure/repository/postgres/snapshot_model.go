package postgres

import (
	"time"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/fpl-monthly/internal/domain/league"
	"github.com/riskibarqy/fpl-monthly/internal/domain/monthly"
	"github.com/riskibarqy/fpl-monthly/internal/domain/snapshot"
)

const snapshotTable = "monthly_snapshots"

type snapshotTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	LeagueID  string    `db:"league_id"`
	Source    string    `db:"source"`
	Note      string    `db:"note"`
	Payload   []byte    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

type snapshotInsertModel struct {
	PublicID  string    `db:"public_id"`
	LeagueID  string    `db:"league_id"`
	Source    string    `db:"source"`
	Note      string    `db:"note"`
	Payload   string    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

// resultPayload is the JSONB shape of monthly.Result. The domain types carry
// no json tags so the column layout is pinned here.
type resultPayload struct {
	Labels   []string         `json:"labels"`
	Months   []monthPayload   `json:"months"`
	Combined []combinedRecord `json:"combined"`
}

type monthPayload struct {
	Label     string      `json:"label"`
	Start     int         `json:"start,omitempty"`
	End       int         `json:"end,omitempty"`
	Gameweeks []int       `json:"gameweeks,omitempty"`
	Rows      []rowRecord `json:"rows"`
}

type entryRecord struct {
	ID         int64  `json:"entry_id"`
	PlayerName string `json:"player_name"`
	TeamName   string `json:"team_name"`
}

type rowRecord struct {
	entryRecord
	Gross        int `json:"gross"`
	TransferCost int `json:"transfer_cost"`
	Net          int `json:"net"`
	Rank         int `json:"rank"`
}

type combinedRecord struct {
	entryRecord
	MonthNet []int `json:"month_net"`
	TotalNet int   `json:"total_net"`
	Rank     int   `json:"rank"`
}

func encodeResult(result monthly.Result) ([]byte, error) {
	payload := resultPayload{
		Labels:   append([]string{}, result.Labels...),
		Months:   make([]monthPayload, 0, len(result.Months)),
		Combined: make([]combinedRecord, 0, len(result.Combined)),
	}
	for _, table := range result.Months {
		month := monthPayload{
			Label:     table.Month.Label,
			Start:     table.Month.Start,
			End:       table.Month.End,
			Gameweeks: table.Month.Gameweeks,
			Rows:      make([]rowRecord, 0, len(table.Rows)),
		}
		for _, row := range table.Rows {
			month.Rows = append(month.Rows, rowRecord{
				entryRecord:  toEntryRecord(row.Entry),
				Gross:        row.Gross,
				TransferCost: row.TransferCost,
				Net:          row.Net,
				Rank:         row.Rank,
			})
		}
		payload.Months = append(payload.Months, month)
	}
	for _, row := range result.Combined {
		payload.Combined = append(payload.Combined, combinedRecord{
			entryRecord: toEntryRecord(row.Entry),
			MonthNet:    row.MonthNet,
			TotalNet:    row.TotalNet,
			Rank:        row.Rank,
		})
	}

	return sonic.Marshal(payload)
}

func decodeResult(raw []byte) (monthly.Result, error) {
	var payload resultPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return monthly.Result{}, err
	}

	result := monthly.Result{
		Labels:   payload.Labels,
		Months:   make([]monthly.Table, 0, len(payload.Months)),
		Combined: make([]monthly.CombinedRow, 0, len(payload.Combined)),
	}
	for _, month := range payload.Months {
		def := monthly.Definition{
			Label:     month.Label,
			Start:     month.Start,
			End:       month.End,
			Gameweeks: month.Gameweeks,
		}
		rows := make([]monthly.Row, 0, len(month.Rows))
		for _, row := range month.Rows {
			rows = append(rows, monthly.Row{
				Entry:        row.entryRecord.toEntry(),
				Label:        month.Label,
				Gross:        row.Gross,
				TransferCost: row.TransferCost,
				Net:          row.Net,
				Rank:         row.Rank,
			})
		}
		result.Months = append(result.Months, monthly.Table{Month: def, Rows: rows})
	}
	for _, row := range payload.Combined {
		result.Combined = append(result.Combined, monthly.CombinedRow{
			Entry:    row.entryRecord.toEntry(),
			MonthNet: row.MonthNet,
			TotalNet: row.TotalNet,
			Rank:     row.Rank,
		})
	}

	return result, nil
}

func toEntryRecord(e league.Entry) entryRecord {
	return entryRecord{ID: e.ID, PlayerName: e.PlayerName, TeamName: e.TeamName}
}

func (r entryRecord) toEntry() league.Entry {
	return league.Entry{ID: r.ID, PlayerName: r.PlayerName, TeamName: r.TeamName}
}

func snapshotFromModel(m snapshotTableModel) (snapshot.Snapshot, error) {
	result, err := decodeResult(m.Payload)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return snapshot.Snapshot{
		ID:        m.PublicID,
		LeagueID:  m.LeagueID,
		Source:    m.Source,
		Note:      m.Note,
		Result:    result,
		CreatedAt: m.CreatedAt.UTC(),
	}, nil
}
