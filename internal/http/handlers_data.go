package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/session"
)

type transactionView struct {
	Date     string `json:"date"`
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Note     string `json:"note"`
}

type overviewView struct {
	TotalIncome   string            `json:"totalIncome"`
	TotalExpenses string            `json:"totalExpenses"`
	NetTotal      string            `json:"netTotal"`
	Transactions  []transactionView `json:"transactions"`
}

type categoryView struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type monthView struct {
	Month         string  `json:"_id"`
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
}

func newOverviewView(sum core.MonthlySummary) overviewView {
	v := overviewView{
		TotalIncome:   core.FormatAmount(sum.TotalIncome),
		TotalExpenses: core.FormatAmount(sum.TotalExpenses),
		NetTotal:      core.FormatAmount(sum.NetTotal),
		Transactions:  make([]transactionView, 0, len(sum.Transactions)),
	}
	for _, t := range sum.Transactions {
		v.Transactions = append(v.Transactions, transactionView{
			Date:     t.Date.UTC().Format(core.DateLayout),
			Type:     string(t.Type),
			Amount:   core.FormatAmount(t.Amount),
			Category: t.Category,
			Note:     t.Note,
		})
	}
	return v
}

func (s *Server) handleOverviewPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "overview.html", pageData{
		Title: "Overview",
		Month: core.CurrentMonth(s.now()).String(),
	})
}

func (s *Server) handleChartsPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "charts.html", pageData{
		Title: "Charts",
		Month: core.CurrentMonth(s.now()).String(),
	})
}

func (s *Server) handleOverviewData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := session.UserIDFromContext(ctx)
	month := core.CurrentMonth(s.now())

	sum, err := s.summaries.MonthlySummary(ctx, userID, month)
	if err != nil {
		log.LogError(ctx, "Failed to build monthly overview", err, log.ComponentSummary, log.OpOverview,
			log.NewFields().WithUser(userID))
		writeJSONError(w, r, msgOverviewFailed)
		return
	}
	writeJSON(w, r, http.StatusOK, newOverviewView(sum))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := session.UserIDFromContext(ctx)

	month, err := core.ParseMonth(r.URL.Query().Get("month"), s.now())
	if err != nil {
		err = &core.ValidationError{Field: "month", Err: err}
		log.LogError(ctx, "Invalid chart month", err, log.ComponentSummary, log.OpChart,
			log.NewFields().WithUser(userID))
		writeJSONError(w, r, msgChartFailed)
		return
	}

	rows, err := s.summaries.CategoryBreakdown(ctx, userID, month)
	if err != nil {
		log.LogError(ctx, "Failed to build category breakdown", err, log.ComponentSummary, log.OpChart,
			log.NewFields().WithUser(userID))
		writeJSONError(w, r, msgChartFailed)
		return
	}

	out := make([]categoryView, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryView{Category: row.Category, Amount: row.Amount})
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleMonthlyOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := session.UserIDFromContext(ctx)

	rows, err := s.summaries.AllMonthsSummary(ctx, userID)
	if err != nil {
		log.LogError(ctx, "Failed to build monthly totals", err, log.ComponentSummary, log.OpMonthly,
			log.NewFields().WithUser(userID))
		writeJSONError(w, r, msgMonthlyFailed)
		return
	}

	out := make([]monthView, 0, len(rows))
	for _, row := range rows {
		out = append(out, monthView{Month: row.Month, TotalIncome: row.TotalIncome, TotalExpenses: row.TotalExpenses})
	}
	writeJSON(w, r, http.StatusOK, out)
}
