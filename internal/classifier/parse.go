package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	internalErrors "github.com/GSaiKiran15/Case-Wage-Pro/internal/errors"
	"github.com/GSaiKiran15/Case-Wage-Pro/model"
)

var codeFence = regexp.MustCompile("(?s)^```[A-Za-z]*[ \t]*\n(.*?)\n?[ \t]*```$")

// ParseResponse validates raw model output against the output contract
// and the hits that were sent. Kept hits in the result are the caller's
// original values. Every violation is a MalformedResponseError.
func ParseResponse(service, raw string, input []model.CandidateHit) (model.Classification, error) {
	malformed := func(format string, args ...any) error {
		return internalErrors.NewMalformedResponseError(service, fmt.Sprintf(format, args...), raw)
	}

	body := stripFence(raw)
	if body == "" {
		return model.Classification{}, malformed("empty output")
	}

	if err := checkKeys(body); err != nil {
		return model.Classification{}, malformed("%v", err)
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()
	var out contractOutput
	if err := dec.Decode(&out); err != nil {
		return model.Classification{}, malformed("decode output: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return model.Classification{}, malformed("trailing data after JSON object")
	}

	if err := validate.Struct(out); err != nil {
		return model.Classification{}, malformed("%s", describeValidation(err))
	}

	kept, err := matchHits(out.Result.Hits, input)
	if err != nil {
		return model.Classification{}, malformed("%v", err)
	}

	return model.Classification{
		Result:     model.FilteredResult{Hits: kept},
		Level:      model.WageLevel(out.Level),
		Confidence: model.Confidence(out.Confidence),
	}, nil
}

// stripFence removes one markdown code fence wrapping the whole output.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if m := codeFence.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// checkKeys enforces exact key sets, with exact casing, at every level.
// A key that appears twice in one object is rejected before decoding,
// since decoding keeps only the last value.
func checkKeys(body string) error {
	dec := json.NewDecoder(strings.NewReader(body))
	if err := uniqueKeys(dec, ""); err != nil {
		return err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &top); err != nil {
		return fmt.Errorf("output is not a JSON object: %v", err)
	}
	if err := exactKeys("output", top, outputKeys); err != nil {
		return err
	}

	var result map[string]json.RawMessage
	if err := json.Unmarshal(top["result"], &result); err != nil || result == nil {
		return fmt.Errorf("'result' is not an object")
	}
	if err := exactKeys("result", result, resultKeys); err != nil {
		return err
	}

	var hits []map[string]json.RawMessage
	if err := json.Unmarshal(result["hits"], &hits); err != nil {
		return fmt.Errorf("'result.hits' is not an array of objects")
	}
	for i, hit := range hits {
		where := fmt.Sprintf("result.hits[%d]", i)
		if hit == nil {
			return fmt.Errorf("'%s' is not an object", where)
		}
		if err := exactKeys(where, hit, hitKeys); err != nil {
			return err
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(hit["fields"], &fields); err != nil || fields == nil {
			return fmt.Errorf("'%s.fields' is not an object", where)
		}
		if err := exactKeys(where+".fields", fields, fieldKeys); err != nil {
			return err
		}
	}
	return nil
}

// uniqueKeys reads one JSON value from dec and fails on any object that
// repeats a key.
func uniqueKeys(dec *json.Decoder, where string) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("output is not a JSON object: %v", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		seen := make(map[string]bool)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return fmt.Errorf("output is not a JSON object: %v", err)
			}
			key, _ := tok.(string)
			if seen[key] {
				return fmt.Errorf("duplicate key '%s' in %s", key, location(where))
			}
			seen[key] = true
			path := key
			if where != "" {
				path = where + "." + key
			}
			if err := uniqueKeys(dec, path); err != nil {
				return err
			}
		}
	case '[':
		for i := 0; dec.More(); i++ {
			if err := uniqueKeys(dec, fmt.Sprintf("%s[%d]", where, i)); err != nil {
				return err
			}
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("output is not a JSON object: %v", err)
	}
	return nil
}

func location(where string) string {
	if where == "" {
		return "output"
	}
	return where
}

func exactKeys(where string, obj map[string]json.RawMessage, want []string) error {
	for _, key := range want {
		if _, ok := obj[key]; !ok {
			return fmt.Errorf("missing key '%s' in %s", key, where)
		}
	}
	if len(obj) == len(want) {
		return nil
	}
	var extra []string
	for key := range obj {
		if !contains(want, key) {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return fmt.Errorf("unexpected key(s) %s in %s", strings.Join(extra, ", "), where)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("'%s' has value '%v' (allowed: %s)", fe.Namespace(), fe.Value(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("'%s' failed '%s'", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// matchHits maps returned hits onto the input. Returned hits must equal
// input hits field for field and appear in strictly increasing input order.
func matchHits(returned []contractHit, input []model.CandidateHit) ([]model.CandidateHit, error) {
	kept := make([]model.CandidateHit, 0, len(returned))
	next := 0
	for i, h := range returned {
		candidate := model.CandidateHit{
			ID:    h.ID,
			Score: *h.Score,
			Fields: model.HitFields{
				Value:       h.Fields.Value,
				Title:       h.Fields.Title,
				Description: h.Fields.Description,
			},
		}

		found := -1
		for j := next; j < len(input); j++ {
			if input[j].Equal(candidate) {
				found = j
				break
			}
		}
		if found < 0 {
			return nil, unmatchedHit(i, candidate, input, next)
		}
		kept = append(kept, input[found])
		next = found + 1
	}
	return kept, nil
}

func unmatchedHit(i int, hit model.CandidateHit, input []model.CandidateHit, next int) error {
	for j, in := range input {
		if in.ID != hit.ID {
			continue
		}
		if in.Equal(hit) && j < next {
			return fmt.Errorf("hit %d ('%s') is out of order or repeated", i, hit.ID)
		}
		if !in.Equal(hit) {
			return fmt.Errorf("hit %d ('%s') does not reproduce the candidate verbatim", i, hit.ID)
		}
	}
	return fmt.Errorf("hit %d ('%s') is not one of the candidates", i, hit.ID)
}
