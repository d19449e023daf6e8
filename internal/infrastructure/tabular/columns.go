package tabular

import "strings"

const (
	FieldEntryID      = "entry_id"
	FieldPlayerName   = "player_name"
	FieldTeamName     = "team_name"
	FieldGameweek     = "gameweek"
	FieldEventPoints  = "event_points"
	FieldTotalPoints  = "total_points"
	FieldTransferCost = "transfer_cost"
)

// RequiredFields lists the canonical columns in the order missing ones are reported.
var RequiredFields = []string{
	FieldEntryID,
	FieldPlayerName,
	FieldTeamName,
	FieldGameweek,
	FieldEventPoints,
	FieldTotalPoints,
	FieldTransferCost,
}

// synonyms maps a lower-cased, trimmed header to its canonical field.
var synonyms = map[string]string{
	"entryid":  FieldEntryID,
	"entry_id": FieldEntryID,
	"entry id": FieldEntryID,
	"entry":    FieldEntryID,

	"manager":      FieldPlayerName,
	"player":       FieldPlayerName,
	"player_name":  FieldPlayerName,
	"player name":  FieldPlayerName,
	"manager_name": FieldPlayerName,

	"team":       FieldTeamName,
	"team_name":  FieldTeamName,
	"entry_name": FieldTeamName,
	"team name":  FieldTeamName,

	"gameweek":  FieldGameweek,
	"gw":        FieldGameweek,
	"event":     FieldGameweek,
	"game week": FieldGameweek,

	"points":       FieldEventPoints,
	"event_points": FieldEventPoints,
	"pts":          FieldEventPoints,
	"event points": FieldEventPoints,

	"total":        FieldTotalPoints,
	"total_points": FieldTotalPoints,
	"total points": FieldTotalPoints,

	"transfer_cost":        FieldTransferCost,
	"event_transfers_cost": FieldTransferCost,
	"transfers_cost":       FieldTransferCost,
	"transfer cost":        FieldTransferCost,
	"hits":                 FieldTransferCost,
}

// CanonicalField resolves a raw header. ok is false for unknown headers.
func CanonicalField(header string) (string, bool) {
	field, ok := synonyms[strings.ToLower(strings.TrimSpace(header))]
	return field, ok
}

// ResolveColumns maps each canonical field to the first header resolving to it
// and lists the fields no header resolved to.
func ResolveColumns(header []string) (map[string]int, []string) {
	index := make(map[string]int, len(RequiredFields))
	for i, raw := range header {
		field, ok := CanonicalField(raw)
		if !ok {
			continue
		}
		if _, taken := index[field]; taken {
			continue
		}
		index[field] = i
	}

	var missing []string
	for _, field := range RequiredFields {
		if _, ok := index[field]; !ok {
			missing = append(missing, field)
		}
	}
	return index, missing
}
