package controllers

import (
	"net/http"

	"github.com/mazaohq/mazao-pos-backend/api/middleware"
	"github.com/mazaohq/mazao-pos-backend/api/responses"
	"github.com/mazaohq/mazao-pos-backend/api/validators"
	"github.com/mazaohq/mazao-pos-backend/internal/reports"
	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
)

// ReportSummary returns period totals, payment and daily breakdowns, top
// products and the low-stock list. The period defaults to the last 30 days.
func ReportSummary(service reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		from, err := validators.ParseQueryTime(r, "from")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		to, err := validators.ParseQueryTime(r, "to")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := reports.SummaryInput{ShopID: middleware.ShopIDFromContext(ctx)}
		if from != nil {
			input.From = *from
		}
		if to != nil {
			input.To = *to
		}

		summary, err := service.Summary(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
