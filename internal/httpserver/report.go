package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/store_manager/internal/service"
	"github.com/Skotchmaster/store_manager/pkg/logging"
)

type ReportHTTP struct {
	Reports *service.Reports
}

type spendersPage struct {
	Title string
	Rows  []service.SpenderRow
}

type sellersPage struct {
	Title string
	Rows  []service.SellerRow
}

func (h *ReportHTTP) HighestSpendersPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.highest_spenders_page")

	rows, err := h.Reports.HighestSpenders(ctx)
	if err != nil {
		l.Error("highest_spenders_error", "status", 500, "reason", "cannot build report", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot build report")
	}
	return c.Render(http.StatusOK, "highest_spenders.html", spendersPage{Title: "Highest spending users", Rows: rows})
}

func (h *ReportHTTP) BestSellersPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.best_sellers_page")

	rows, err := h.Reports.BestSellers(ctx)
	if err != nil {
		l.Error("best_sellers_error", "status", 500, "reason", "cannot build report", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot build report")
	}
	return c.Render(http.StatusOK, "best_sellers.html", sellersPage{Title: "Best selling products", Rows: rows})
}

func (h *ReportHTTP) HighestSpenders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.highest_spenders")

	rows, err := h.Reports.HighestSpenders(ctx)
	if err != nil {
		l.Error("highest_spenders_error", "status", 500, "reason", "cannot build report", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot build report")
	}
	return c.JSON(http.StatusOK, map[string]any{"data": rows})
}

func (h *ReportHTTP) BestSellers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.best_sellers")

	rows, err := h.Reports.BestSellers(ctx)
	if err != nil {
		l.Error("best_sellers_error", "status", 500, "reason", "cannot build report", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot build report")
	}
	return c.JSON(http.StatusOK, map[string]any{"data": rows})
}
