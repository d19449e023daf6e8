package httpapi

import (
	"context"
	"embed"
	"encoding/base64"
	"html/template"
	"net/http"
	"strconv"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/fpl-monthly/internal/usecase"
)

//go:embed templates/*.html
var pageFiles embed.FS

var pageFuncs = template.FuncMap{
	"signed": func(v int) string {
		if v > 0 {
			return "+" + strconv.Itoa(v)
		}
		return strconv.Itoa(v)
	},
	"fixed1": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64)
	},
	"add": func(a, b int) int { return a + b },
	"at": func(values []int, i int) int {
		if i < 0 || i >= len(values) {
			return 0
		}
		return values[i]
	},
}

func parsePages() *template.Template {
	return template.Must(template.New("pages").Funcs(pageFuncs).ParseFS(pageFiles, "templates/*.html"))
}

type exportLink struct {
	Label    string
	FileName string
	Href     template.URL
}

type pageData struct {
	Title     string
	LeagueID  int64
	TopN      int
	MaxTopN   int
	Months    []monthDefinitionDTO
	Error     string
	Dashboard *usecase.Dashboard
	Chart     svgChart
	Exports   []exportLink
}

func (h *Handler) basePage(title string) pageData {
	months := h.leaderboard.Months()
	defs := make([]monthDefinitionDTO, 0, len(months))
	for _, m := range months {
		defs = append(defs, monthDefinitionToDTO(m))
	}
	return pageData{
		Title:    title,
		LeagueID: h.cfg.DefaultLeagueID,
		TopN:     h.cfg.DefaultTopN,
		MaxTopN:  usecase.MaxChartTopN,
		Months:   defs,
	}
}

// exportLinks inlines both CSV exports as data URIs so uploaded runs can be
// downloaded without being recomputed.
func exportLinks(report usecase.Report) ([]exportLink, error) {
	kinds := []struct{ kind, label string }{
		{usecase.ExportCombined, "Combined months (net)"},
		{usecase.ExportGameweeks, "Gameweek net pivot"},
	}

	links := make([]exportLink, 0, len(kinds))
	for _, k := range kinds {
		body, err := usecase.Export(report, k.kind)
		if err != nil {
			return nil, err
		}
		name, err := usecase.ExportFileName(k.kind)
		if err != nil {
			return nil, err
		}
		links = append(links, exportLink{
			Label:    k.label,
			FileName: name,
			Href:     template.URL("data:text/csv;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(body)),
		})
	}
	return links, nil
}

func (h *Handler) renderPage(ctx context.Context, w http.ResponseWriter, status int, name string, data pageData) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := h.pages.ExecuteTemplate(buf, name, data); err != nil {
		h.logger.ErrorContext(ctx, "render page failed", "page", name, "error", err)
		writeInternalError(ctx, w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}
