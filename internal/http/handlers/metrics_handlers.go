package handlers

import (
	"net/http"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics of the current user
// @Tags metrics
// @Produce json
// @Success 200 {object} repo.Metrics
// @Failure 401 {object} MessageResponse
// @Router /metrics/dashboard [get]
// @Security CookieAuth
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	m, err := metricsRepo.GetDashboardMetrics(r.Context(), userID)
	if err != nil {
		serverError(w, "fetch metrics", err)
		return
	}
	respond(w, http.StatusOK, m)
}
