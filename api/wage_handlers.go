package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GSaiKiran15/Case-Wage-Pro/internal/metrics"
	"github.com/GSaiKiran15/Case-Wage-Pro/services"
)

var wageQueryParams = []string{"jobCode", "countyValue", "stateValue"}

// BestAreasHandler returns the requester's own area record and the
// lowest-wage areas in the comparison state and nationwide.
// Query: jobCode, countyValue, stateValue, comparisonState (optional)
func (api *API) BestAreasHandler(c *gin.Context) {
	params, validation := RequireQueryParams(c, wageQueryParams...)
	if validation.HasErrors() {
		SendMissingParametersError(c, validation)
		return
	}

	var result *services.BestAreasResult
	err := api.metrics.Time(metrics.StageRank, func() error {
		var err error
		result, err = api.ranker.Rank(c.Request.Context(), services.BestAreasQuery{
			OccupationCode:  params["jobCode"],
			County:          params["countyValue"],
			State:           params["stateValue"],
			ComparisonState: c.Query("comparisonState"),
		})
		return err
	})
	if err != nil {
		SendDomainError(c, "best areas", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"areaCode":        result.AreaCode,
		"jobCode":         result.OccupationCode,
		"title":           result.Title,
		"comparisonState": result.ComparisonState,
		"sortedBy":        result.SortedBy,
		"jobInfo":         result.SelfRecord,
		"stateAreas":      result.StateAreas,
		"usaAreas":        result.NationalAreas,
	})
}

// WageDataHandler returns the wage record of one occupation in the area a
// county belongs to. jobInfo is null when the occupation is not surveyed
// there.
// Query: jobCode, countyValue, stateValue
func (api *API) WageDataHandler(c *gin.Context) {
	params, validation := RequireQueryParams(c, wageQueryParams...)
	if validation.HasErrors() {
		SendMissingParametersError(c, validation)
		return
	}

	result, err := api.ranker.Lookup(c.Request.Context(), params["jobCode"], params["countyValue"], params["stateValue"])
	if err != nil {
		SendDomainError(c, "wage lookup", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"areaCode": result.AreaCode,
		"jobCode":  result.OccupationCode,
		"jobInfo":  result.Record,
	})
}
