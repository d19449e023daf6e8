package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/fpl-monthly/internal/domain/monthly"
)

// maxSeasonGameweek bounds both the MONTHS syntax and the MONTHS_FILE validator tags.
const maxSeasonGameweek = 38

// DefaultMonths is the mapping used when neither MONTHS nor MONTHS_FILE is set.
func DefaultMonths() []monthly.Definition {
	return []monthly.Definition{
		{Label: "Month 1", Start: 1, End: 4},
		{Label: "Month 2", Start: 5, End: 8},
		{Label: "Month 3", Start: 9, End: 12},
		{Label: "Month 4", Start: 13, End: 16},
		{Label: "Month 5", Start: 17, End: 19},
	}
}

// ParseMonths reads "Label:start-end;Label:gw,gw,gw". A single number is a
// one-gameweek range.
func ParseMonths(raw string) ([]monthly.Definition, error) {
	var out []monthly.Definition
	for _, item := range strings.Split(raw, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		idx := strings.LastIndex(item, ":")
		if idx <= 0 {
			return nil, fmt.Errorf("invalid month %q, expected label:gameweeks", item)
		}
		label := strings.TrimSpace(item[:idx])
		spec := strings.TrimSpace(item[idx+1:])

		def, err := parseMonthSpec(label, spec)
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("at least one month is required")
	}
	if err := monthly.ValidateDefinitions(out); err != nil {
		return nil, err
	}
	return out, nil
}

func parseMonthSpec(label, spec string) (monthly.Definition, error) {
	def := monthly.Definition{Label: label}

	if strings.Contains(spec, ",") {
		for _, part := range strings.Split(spec, ",") {
			gw, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return monthly.Definition{}, fmt.Errorf("month %q: invalid gameweek %q", label, part)
			}
			def.Gameweeks = append(def.Gameweeks, gw)
		}
		return def, checkSeasonBounds(label, def.Gameweeks...)
	}

	startRaw, endRaw, isRange := strings.Cut(spec, "-")
	start, err := strconv.Atoi(strings.TrimSpace(startRaw))
	if err != nil {
		return monthly.Definition{}, fmt.Errorf("month %q: invalid start %q", label, startRaw)
	}
	end := start
	if isRange {
		end, err = strconv.Atoi(strings.TrimSpace(endRaw))
		if err != nil {
			return monthly.Definition{}, fmt.Errorf("month %q: invalid end %q", label, endRaw)
		}
	}
	def.Start, def.End = start, end
	return def, checkSeasonBounds(label, start, end)
}

func checkSeasonBounds(label string, gameweeks ...int) error {
	for _, gw := range gameweeks {
		if gw < 1 || gw > maxSeasonGameweek {
			return fmt.Errorf("month %q: gameweek %d outside 1-%d", label, gw, maxSeasonGameweek)
		}
	}
	return nil
}

type monthFileItem struct {
	Name      string `json:"name" validate:"required"`
	Start     int    `json:"start" validate:"omitempty,min=1,max=38"`
	End       int    `json:"end" validate:"omitempty,min=1,max=38"`
	Gameweeks []int  `json:"gameweeks" validate:"omitempty,dive,min=1,max=38"`
}

var monthValidator = validator.New(validator.WithRequiredStructEnabled())

// LoadMonthsFile reads a JSON array of {"name","start","end","gameweeks"}.
func LoadMonthsFile(path string) ([]monthly.Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeMonths(raw)
}

func DecodeMonths(raw []byte) ([]monthly.Definition, error) {
	var items []monthFileItem
	if err := sonic.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode months: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one month is required")
	}

	out := make([]monthly.Definition, 0, len(items))
	for i, item := range items {
		if err := monthValidator.Struct(item); err != nil {
			return nil, fmt.Errorf("month %d: %w", i, err)
		}
		end := item.End
		if end == 0 {
			end = item.Start
		}
		out = append(out, monthly.Definition{
			Label:     strings.TrimSpace(item.Name),
			Start:     item.Start,
			End:       end,
			Gameweeks: item.Gameweeks,
		})
	}

	if err := monthly.ValidateDefinitions(out); err != nil {
		return nil, err
	}
	return out, nil
}
