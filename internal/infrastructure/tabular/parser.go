package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/fpl-monthly/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-monthly/internal/domain/league"
	"github.com/riskibarqy/fpl-monthly/internal/platform/logging"
)

const utf8BOM = "\ufeff"

// Parser reads the one-row-per-entry-per-gameweek CSV extract.
type Parser struct {
	logger *logging.Logger
}

func NewParser(logger *logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Default()
	}
	return &Parser{logger: logger}
}

// Parse resolves headers through the synonym table, then coerces rows. Rows
// with a non-numeric or non-positive entry id or gameweek are dropped. Non-numeric points,
// totals and transfer costs become 0.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (league.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return league.Dataset{}, &league.SchemaError{Missing: append([]string(nil), RequiredFields...)}
	}
	if err != nil {
		return league.Dataset{}, crerr.Mark(crerr.Wrap(err, "read csv header"), league.ErrSchemaInvalid)
	}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	columns, missing := ResolveColumns(header)
	if len(missing) > 0 {
		return league.Dataset{}, &league.SchemaError{Missing: missing}
	}

	var (
		dataset = league.Dataset{}
		seen    = make(map[int64]struct{})
		dropped int
		line    = 1
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return league.Dataset{}, crerr.Mark(crerr.Wrapf(err, "read csv line %d", line), league.ErrSchemaInvalid)
		}
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return league.Dataset{}, err
			}
		}

		entryID, ok := parseNumber(cell(row, columns[FieldEntryID]))
		if !ok || entryID <= 0 {
			dropped++
			continue
		}
		gw, ok := parseNumber(cell(row, columns[FieldGameweek]))
		if !ok || gw <= 0 || gw > math.MaxInt32 {
			dropped++
			continue
		}

		if _, exists := seen[entryID]; !exists {
			seen[entryID] = struct{}{}
			dataset.Entries = append(dataset.Entries, league.Entry{
				ID:         entryID,
				PlayerName: cell(row, columns[FieldPlayerName]),
				TeamName:   cell(row, columns[FieldTeamName]),
			})
		}

		dataset.Records = append(dataset.Records, gameweek.Record{
			EntryID:      entryID,
			Gameweek:     int(gw),
			Points:       coerceInt(cell(row, columns[FieldEventPoints])),
			TotalPoints:  coerceInt(cell(row, columns[FieldTotalPoints])),
			TransferCost: coerceInt(cell(row, columns[FieldTransferCost])),
		})
	}

	p.logger.InfoContext(ctx, "csv extract parsed",
		"entries", len(dataset.Entries),
		"records", len(dataset.Records),
		"dropped_rows", dropped,
	)
	return dataset, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber accepts integers and decimals like "12.0", truncating toward zero.
// Decimals outside the int64 range are rejected.
func parseNumber(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func coerceInt(raw string) int {
	v, ok := parseNumber(raw)
	if !ok {
		return 0
	}
	return int(v)
}
