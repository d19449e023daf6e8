package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/fpl-monthly/internal/domain/league"
	"github.com/riskibarqy/fpl-monthly/internal/domain/monthly"
	"github.com/riskibarqy/fpl-monthly/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-monthly/internal/usecase"
)

const uploadFormField = "file"

var errBodyTooLarge = errors.New("request body too large")

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type topNQuery struct {
	TopN int `validate:"min=1,max=200"`
}

type listSnapshotsQuery struct {
	Limit int `validate:"min=0,max=100"`
}

type createSnapshotRequest struct {
	Note string `json:"note" validate:"max=280"`
}

type exportKindParam struct {
	Kind string `validate:"required,oneof=combined gameweeks"`
}

func parseLeagueID(raw string) (int64, error) {
	leagueID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || leagueID <= 0 {
		return 0, fmt.Errorf("%w: league id must be a positive integer, got %q", usecase.ErrInvalidInput, raw)
	}
	return leagueID, nil
}

func parseOptionalInt(raw, name string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return value, nil
}

func (h *Handler) topN(ctx context.Context, r *http.Request) (int, error) {
	topN, err := parseOptionalInt(r.URL.Query().Get("top_n"), "top_n", h.cfg.DefaultTopN)
	if err != nil {
		return 0, err
	}
	if err := h.validateRequest(ctx, topNQuery{TopN: topN}); err != nil {
		return 0, err
	}
	return topN, nil
}

func (h *Handler) exportKind(ctx context.Context, r *http.Request) (string, error) {
	kind := strings.ToLower(strings.TrimSpace(r.PathValue("kind")))
	if err := h.validateRequest(ctx, exportKindParam{Kind: kind}); err != nil {
		return "", err
	}
	return kind, nil
}

// readUpload buffers the CSV of a request, either a multipart "file" field or
// the raw body. The buffer must be released with bytebufferpool.Put.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (*bytebufferpool.ByteBuffer, error) {
	body := http.MaxBytesReader(w, r.Body, h.cfg.UploadMaxBytes)
	r.Body = body

	var src io.Reader = body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		part, err := findUploadPart(r)
		if err != nil {
			return nil, err
		}
		defer part.Close()
		src = part
	}

	buf := bytebufferpool.Get()
	if _, err := buf.ReadFrom(src); err != nil {
		bytebufferpool.Put(buf)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, maxErr.Limit)
		}
		return nil, fmt.Errorf("%w: read upload: %v", usecase.ErrInvalidInput, err)
	}
	if buf.Len() == 0 {
		bytebufferpool.Put(buf)
		return nil, fmt.Errorf("%w: upload is empty", usecase.ErrInvalidInput)
	}
	return buf, nil
}

func findUploadPart(r *http.Request) (*multipart.Part, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid multipart body: %v", usecase.ErrInvalidInput, err)
	}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: multipart field %q is required", usecase.ErrInvalidInput, uploadFormField)
		}
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, maxErr.Limit)
			}
			return nil, fmt.Errorf("%w: invalid multipart body: %v", usecase.ErrInvalidInput, err)
		}
		if part.FormName() == uploadFormField {
			return part, nil
		}
		_ = part.Close()
	}
}

func writeCSV(ctx context.Context, w http.ResponseWriter, fileName string, body []byte) {
	_, span := startSpan(ctx, "httpapi.writeCSV")
	defer span.End()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type entryDTO struct {
	EntryID    int64  `json:"entry_id"`
	PlayerName string `json:"player_name"`
	TeamName   string `json:"team_name"`
}

type monthDefinitionDTO struct {
	Label     string `json:"label"`
	Start     int    `json:"start,omitempty"`
	End       int    `json:"end,omitempty"`
	Gameweeks []int  `json:"gameweeks,omitempty"`
	Span      string `json:"span"`
}

type monthRowDTO struct {
	entryDTO
	Gross        int `json:"gross"`
	TransferCost int `json:"transfer_cost"`
	Net          int `json:"net"`
	Rank         int `json:"rank"`
}

type monthTableDTO struct {
	Label   string        `json:"label"`
	Span    string        `json:"span"`
	Rows    []monthRowDTO `json:"rows"`
	Winners []monthRowDTO `json:"winners"`
}

type monthNetDTO struct {
	Label string `json:"label"`
	Net   int    `json:"net"`
}

type combinedRowDTO struct {
	entryDTO
	Months   []monthNetDTO `json:"months"`
	TotalNet int           `json:"total_net"`
	Rank     int           `json:"rank"`
}

type averageRowDTO struct {
	entryDTO
	AverageNet float64 `json:"average_net"`
	TotalNet   int     `json:"total_net"`
}

type chartSeriesDTO struct {
	entryDTO
	Label      string `json:"label"`
	Cumulative []int  `json:"cumulative"`
}

type chartDTO struct {
	Gameweeks []int            `json:"gameweeks"`
	Series    []chartSeriesDTO `json:"series"`
}

type dashboardDTO struct {
	LeagueID    int64            `json:"league_id,omitempty"`
	Source      string           `json:"source"`
	GeneratedAt string           `json:"generated_at"`
	Labels      []string         `json:"labels"`
	Months      []monthTableDTO  `json:"months"`
	Combined    []combinedRowDTO `json:"combined"`
	TopAverages []averageRowDTO  `json:"top_averages"`
	Chart       chartDTO         `json:"chart"`
	TopN        int              `json:"top_n"`
	Empty       bool             `json:"empty"`
}

type resultDTO struct {
	Labels   []string         `json:"labels"`
	Months   []monthTableDTO  `json:"months"`
	Combined []combinedRowDTO `json:"combined"`
}

type snapshotDTO struct {
	ID        string     `json:"id"`
	LeagueID  string     `json:"league_id"`
	Source    string     `json:"source"`
	Note      string     `json:"note,omitempty"`
	CreatedAt string     `json:"created_at"`
	Entries   int        `json:"entries"`
	Result    *resultDTO `json:"result,omitempty"`
}

func entryToDTO(e league.Entry) entryDTO {
	return entryDTO{EntryID: e.ID, PlayerName: e.PlayerName, TeamName: e.TeamName}
}

func monthDefinitionToDTO(def monthly.Definition) monthDefinitionDTO {
	out := monthDefinitionDTO{Label: def.Label, Span: def.Span()}
	if len(def.Gameweeks) > 0 {
		out.Gameweeks = append([]int(nil), def.Gameweeks...)
	} else {
		out.Start, out.End = def.Start, def.End
	}
	return out
}

func monthRowsToDTO(rows []monthly.Row) []monthRowDTO {
	out := make([]monthRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, monthRowDTO{
			entryDTO:     entryToDTO(row.Entry),
			Gross:        row.Gross,
			TransferCost: row.TransferCost,
			Net:          row.Net,
			Rank:         row.Rank,
		})
	}
	return out
}

func combinedRowsToDTO(labels []string, rows []monthly.CombinedRow) []combinedRowDTO {
	out := make([]combinedRowDTO, 0, len(rows))
	for _, row := range rows {
		months := make([]monthNetDTO, 0, len(labels))
		for i, label := range labels {
			net := 0
			if i < len(row.MonthNet) {
				net = row.MonthNet[i]
			}
			months = append(months, monthNetDTO{Label: label, Net: net})
		}
		out = append(out, combinedRowDTO{
			entryDTO: entryToDTO(row.Entry),
			Months:   months,
			TotalNet: row.TotalNet,
			Rank:     row.Rank,
		})
	}
	return out
}

func resultToDTO(result monthly.Result) resultDTO {
	months := make([]monthTableDTO, 0, len(result.Months))
	for _, table := range result.Months {
		months = append(months, monthTableDTO{
			Label:   table.Month.Label,
			Span:    table.Month.Span(),
			Rows:    monthRowsToDTO(table.Rows),
			Winners: monthRowsToDTO(table.Winners()),
		})
	}
	return resultDTO{
		Labels:   append([]string{}, result.Labels...),
		Months:   months,
		Combined: combinedRowsToDTO(result.Labels, result.Combined),
	}
}

func dashboardToDTO(d usecase.Dashboard) dashboardDTO {
	months := make([]monthTableDTO, 0, len(d.Months))
	for _, m := range d.Months {
		months = append(months, monthTableDTO{
			Label:   m.Label,
			Span:    m.Span,
			Rows:    monthRowsToDTO(m.Rows),
			Winners: monthRowsToDTO(m.Winners),
		})
	}

	averages := make([]averageRowDTO, 0, len(d.TopAverages))
	for _, row := range d.TopAverages {
		averages = append(averages, averageRowDTO{
			entryDTO:   entryToDTO(row.Entry),
			AverageNet: row.AverageNet,
			TotalNet:   row.TotalNet,
		})
	}

	series := make([]chartSeriesDTO, 0, len(d.Chart.Series))
	for _, s := range d.Chart.Series {
		series = append(series, chartSeriesDTO{
			entryDTO:   entryToDTO(s.Entry),
			Label:      s.Label,
			Cumulative: s.Cumulative,
		})
	}

	return dashboardDTO{
		LeagueID:    d.LeagueID,
		Source:      d.Source,
		GeneratedAt: formatTime(d.GeneratedAt),
		Labels:      append([]string{}, d.Labels...),
		Months:      months,
		Combined:    combinedRowsToDTO(d.Labels, d.Combined),
		TopAverages: averages,
		Chart: chartDTO{
			Gameweeks: append([]int{}, d.Chart.Gameweeks...),
			Series:    series,
		},
		TopN:  d.TopN,
		Empty: d.Empty,
	}
}

func snapshotToDTO(item snapshot.Snapshot, withResult bool) snapshotDTO {
	out := snapshotDTO{
		ID:        item.ID,
		LeagueID:  item.LeagueID,
		Source:    item.Source,
		Note:      item.Note,
		CreatedAt: formatTime(item.CreatedAt),
		Entries:   len(item.Result.Combined),
	}
	if withResult {
		result := resultToDTO(item.Result)
		out.Result = &result
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
