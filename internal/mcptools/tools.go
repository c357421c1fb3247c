// Package mcptools exposes the recommendation pipeline and the wage
// ranking engine as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/logger"
	"github.com/GSaiKiran15/Case-Wage-Pro/services"
)

const (
	ToolRecommendOccupations = "recommend_occupations"
	ToolBestAreas            = "best_areas"
)

// Register adds both tools to s.
func Register(s *server.MCPServer, recommender services.Recommender, ranker services.AreaRanker) {
	recommendTool := mcp.NewTool(ToolRecommendOccupations,
		mcp.WithDescription("Find the occupation codes that match a job description and the prevailing wage level (1-4) the duties support. Pay, location and role type only produce advisory notes."),
		mcp.WithString("job_description", mcp.Required(), mcp.Description("Full job description, plain text or HTML")),
		mcp.WithString("occupation", mcp.Description("Occupation code already in mind, used for the compensation check")),
		mcp.WithString("county", mcp.Description("County of the worksite, e.g. 'Fresno County'")),
		mcp.WithString("state", mcp.Description("State of the worksite, e.g. 'California'")),
		mcp.WithString("pay", mcp.Description("Offered pay, e.g. '$120,000/year' or '$55/hour'")),
		mcp.WithString("role_type", mcp.Description("IC, lead, architect or manager")),
		mcp.WithNumber("top_k", mcp.Description("Number of candidate occupations to consider (1-50)")),
	)
	s.AddTool(recommendTool, RecommendHandler(recommender))

	bestAreasTool := mcp.NewTool(ToolBestAreas,
		mcp.WithDescription("List the areas with the lowest prevailing wages for an occupation, in a comparison state and nationwide, plus the wages of the given county's own area."),
		mcp.WithString("job_code", mcp.Required(), mcp.Description("Occupation code, e.g. '15-1252.00'")),
		mcp.WithString("county", mcp.Required(), mcp.Description("County, e.g. 'San Francisco County'")),
		mcp.WithString("state", mcp.Required(), mcp.Description("State, e.g. 'California'")),
		mcp.WithString("comparison_state", mcp.Description("State to compare against, defaults to state")),
	)
	s.AddTool(bestAreasTool, BestAreasHandler(ranker))
}

// RecommendHandler serves recommend_occupations.
func RecommendHandler(recommender services.Recommender) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		req := services.RecommendRequest{
			Description:    stringArg(args, "job_description"),
			OccupationHint: stringArg(args, "occupation"),
			County:         stringArg(args, "county"),
			State:          stringArg(args, "state"),
			Pay:            stringArg(args, "pay"),
			RoleType:       stringArg(args, "role_type"),
		}
		if strings.TrimSpace(req.Description) == "" {
			return mcp.NewToolResultError("job_description is required"), nil
		}
		if v, ok := args["top_k"].(float64); ok {
			req.TopK = int(v)
		}

		rec, err := recommender.Recommend(ctx, req)
		if err != nil {
			return toolError(ToolRecommendOccupations, err), nil
		}
		return jsonResult(map[string]any{
			"requestId":      rec.ID,
			"candidates":     rec.Candidates,
			"recommendation": rec.Classification,
			"wageLevel":      rec.WageLevel,
			"advisory":       rec.Advisory,
		})
	}
}

// BestAreasHandler serves best_areas.
func BestAreasHandler(ranker services.AreaRanker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		query := services.BestAreasQuery{
			OccupationCode:  stringArg(args, "job_code"),
			County:          stringArg(args, "county"),
			State:           stringArg(args, "state"),
			ComparisonState: stringArg(args, "comparison_state"),
		}
		result, err := ranker.Rank(ctx, query)
		if err != nil {
			return toolError(ToolBestAreas, err), nil
		}
		return jsonResult(result)
	}
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError reports failures inside the result so the calling agent can
// read them. The kind prefix lets it tell bad input from outages.
func toolError(tool string, err error) *mcp.CallToolResult {
	kind := internalErrors.Kind(err)
	logger.Warn("tool call failed", "tool", tool, "kind", kind, "error", err)
	return mcp.NewToolResultError(fmt.Sprintf("%s failed (%s): %v", tool, kind, err))
}
