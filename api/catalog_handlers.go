package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// OccupationsHandler lists occupations matching q by code or title.
// Query: q (optional), limit (optional, default 20)
func (api *API) OccupationsHandler(c *gin.Context) {
	limit, validation := ValidateLimit(c.Query("limit"))
	if validation.HasErrors() {
		SendValidationError(c, validation)
		return
	}

	occupations, err := api.catalog.Occupations(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		SendDomainError(c, "list occupations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"occupations": occupations,
		"total":       len(occupations),
	})
}

// StatesHandler lists the states of the geography dataset.
func (api *API) StatesHandler(c *gin.Context) {
	states, err := api.catalog.States(c.Request.Context())
	if err != nil {
		SendDomainError(c, "list states", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"states":  states,
	})
}

// CountiesHandler lists the counties of one state.
func (api *API) CountiesHandler(c *gin.Context) {
	state := strings.TrimSpace(c.Param("state"))

	counties, err := api.catalog.Counties(c.Request.Context(), state)
	if err != nil {
		SendDomainError(c, "list counties", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"state":    state,
		"counties": counties,
	})
}
