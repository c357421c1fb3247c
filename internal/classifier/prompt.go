package classifier

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/GSaiKiran15/Case-Wage-Pro/model"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var classifyPrompt = template.Must(template.ParseFS(promptFS, "prompts/classify.tmpl"))

type promptData struct {
	Description string
	Candidates  string
}

// BuildPrompt renders the classification prompt. Only the description and
// the candidate hits are inputs; nothing else can reach the model.
func BuildPrompt(description model.JobDescription, hits []model.CandidateHit) (string, error) {
	if hits == nil {
		hits = []model.CandidateHit{}
	}
	var candidates bytes.Buffer
	encoder := json.NewEncoder(&candidates)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(map[string]model.FilteredResult{"result": {Hits: hits}}); err != nil {
		return "", fmt.Errorf("encode candidates: %w", err)
	}

	var buf bytes.Buffer
	data := promptData{Description: string(description), Candidates: string(bytes.TrimSpace(candidates.Bytes()))}
	if err := classifyPrompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render classification prompt: %w", err)
	}
	return buf.String(), nil
}
