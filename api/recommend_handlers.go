package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GSaiKiran15/Case-Wage-Pro/services"
)

// RecommendRequest is the body of POST /recommend. Everything besides
// jobDescription and topK is advisory and never changes the wage level.
type RecommendRequest struct {
	JobDescription string `json:"jobDescription" binding:"required"`
	Occupation     string `json:"occupation"`
	County         string `json:"county"`
	State          string `json:"state"`
	Pay            string `json:"pay"`
	RoleType       string `json:"roleType"`
	TopK           int    `json:"topK" binding:"omitempty,min=1,max=50"`
}

func (r RecommendRequest) toService() services.RecommendRequest {
	return services.RecommendRequest{
		Description:    r.JobDescription,
		OccupationHint: r.Occupation,
		County:         r.County,
		State:          r.State,
		Pay:            r.Pay,
		RoleType:       r.RoleType,
		TopK:           r.TopK,
	}
}

// RecommendHandler retrieves candidate occupations for a job description
// and returns the filtered list with a defensible wage level.
// Request Body: RecommendRequest
func (api *API) RecommendHandler(c *gin.Context) {
	var req RecommendRequest
	if validation := ValidateJSONBinding(c, &req); validation.HasErrors() {
		SendValidationError(c, validation)
		return
	}

	rec, err := api.recommender.Recommend(c.Request.Context(), req.toService())
	if err != nil {
		SendDomainError(c, "recommendation", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"requestId":      rec.ID,
		"candidates":     rec.Candidates,
		"recommendation": rec.Classification,
		"wageLevel":      rec.WageLevel,
		"advisory":       rec.Advisory,
	})
}
