package web

import (
	"errors"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/moneytrail/moneytrail/internal/dashboard"
	"github.com/moneytrail/moneytrail/internal/export"
	"github.com/moneytrail/moneytrail/internal/model"
)

type pageData struct {
	Empty     bool
	Selected  civil.Date
	First     civil.Date
	Last      civil.Date
	Prev      civil.Date
	Next      civil.Date
	HasPrev   bool
	HasNext   bool
	Day       dashboard.DayView
	Merchants []dashboard.MerchantCount
	Threshold decimal.Decimal
	Minimum   decimal.Decimal
	HighValue []model.Transaction
	Problem   string
	Issues    []model.DataIssue
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	threshold, err := s.thresholdParam(r)
	if err != nil {
		http.Error(w, "invalid threshold", http.StatusBadRequest)
		return
	}
	var date civil.Date
	if raw := r.URL.Query().Get("date"); raw != "" {
		if date, err = parseDate(raw); err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
	}

	d, res, ok := s.dashboardFor(w, r)
	if !ok {
		return
	}

	data := pageData{
		Threshold: threshold,
		Minimum:   s.opts.Dashboard.Minimum,
		Merchants: d.TopMerchants(s.opts.Top),
		Issues:    res.Issues,
	}

	nav, err := d.Navigator()
	switch {
	case errors.Is(err, dashboard.ErrNoDates):
		data.Empty = true
	case err != nil:
		s.fail(w, r, err)
		return
	default:
		if date.IsValid() {
			nav.Pick(date)
		}
		data.Selected = nav.Selected()
		data.First, data.Last = nav.First(), nav.Last()
		data.HasPrev, data.HasNext = nav.HasPrev(), nav.HasNext()
		data.Prev, data.Next = data.Selected.AddDays(-1), data.Selected.AddDays(1)
		if data.Day, err = d.Day(data.Selected); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	high, err := d.HighValue(threshold)
	if errors.Is(err, dashboard.ErrBelowMinimum) {
		data.Problem = "금액은 " + s.opts.Dashboard.Minimum.String() + "원 이상이어야 합니다."
	} else {
		data.HighValue = high
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		s.opts.Logger.Error().Err(err).Msg("rendering dashboard")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	_, res, ok := s.dashboardFor(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, export.NewDailyJSON(res.Daily.Days))
}

type dayResponse struct {
	Summary      export.DailyJSON         `json:"summary"`
	Transactions []export.TransactionJSON `json:"transactions"`
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(chi.URLParam(r, "date"))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	d, _, ok := s.dashboardFor(w, r)
	if !ok {
		return
	}
	view, err := d.Day(date)
	if errors.Is(err, dashboard.ErrOutOfRange) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	summary := export.NewDailyJSON([]model.DailySummary{view.Summary})
	s.writeJSON(w, dayResponse{
		Summary:      summary[0],
		Transactions: export.NewTransactionsJSON(view.Transactions),
	})
}

type merchantResponse struct {
	Merchant string `json:"merchant"`
	Count    int    `json:"count"`
}

func (s *Server) handleMerchants(w http.ResponseWriter, r *http.Request) {
	top, err := s.topParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	d, _, ok := s.dashboardFor(w, r)
	if !ok {
		return
	}
	rows := d.TopMerchants(top)
	out := make([]merchantResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, merchantResponse{Merchant: m.Merchant, Count: m.Count})
	}
	s.writeJSON(w, out)
}

func (s *Server) handleHighValue(w http.ResponseWriter, r *http.Request) {
	threshold, err := s.thresholdParam(r)
	if err != nil {
		http.Error(w, "invalid threshold", http.StatusBadRequest)
		return
	}
	d, _, ok := s.dashboardFor(w, r)
	if !ok {
		return
	}
	txns, err := d.HighValue(threshold)
	if errors.Is(err, dashboard.ErrBelowMinimum) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, export.NewTransactionsJSON(txns))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.opts.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("handling request")
	http.Error(w, "internal error", http.StatusInternalServerError)
}
