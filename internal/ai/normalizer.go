package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse indicates the model reply could not be reduced to the
// expected payload: the outer body was not JSON, no known envelope shape
// resolved a text part, or the inner text was not valid JSON.
var ErrMalformedResponse = errors.New("malformed model response")

// ParsedAnalysis is the structured view of the model's inner JSON payload.
// Nil pointer fields mark analysis sections that were absent from the reply;
// absent sections are skipped, not errors.
type ParsedAnalysis struct {
	Overall        *string
	Pace           *string
	HeartRate      *string
	CaloriesBurned *string
	Improvements   []Improvement
	Suggestions    []Suggestion
	Safety         []string
}

// Improvement is one (area, recommendation) pair from the payload.
type Improvement struct {
	Area           string `json:"area"`
	Recommendation string `json:"recommendation"`
}

// Suggestion is one (workout, description) pair from the payload.
type Suggestion struct {
	Workout     string `json:"workout"`
	Description string `json:"description"`
}

// envelopeDecoder is one known provider response shape. Decoders are tried in
// fixed priority order; each is independently testable.
type envelopeDecoder struct {
	name    string
	extract func([]byte) (string, bool)
}

var envelopeDecoders = []envelopeDecoder{
	{name: "candidates", extract: extractCandidatesText},
	{name: "contents", extract: extractContentsText},
}

// Normalize converts a raw model reply into a ParsedAnalysis. The top level
// is strict: an unresolvable envelope or invalid inner JSON fails the whole
// record. Individual payload fields are permissive: missing or ill-typed
// fields are dropped and filled by the assembler's placeholder policy.
func Normalize(raw string) (*ParsedAnalysis, error) {
	text, err := extractText([]byte(raw))
	if err != nil {
		return nil, err
	}
	return decodeInner(stripCodeFences(text))
}

func extractText(raw []byte) (string, error) {
	for _, decoder := range envelopeDecoders {
		if text, ok := decoder.extract(raw); ok {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: no text part under any known envelope shape", ErrMalformedResponse)
}

// extractCandidatesText resolves candidates[0].content.parts[0].text, the
// chat-completion shape.
func extractCandidatesText(raw []byte) (string, bool) {
	var envelope struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", false
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return "", false
	}
	return envelope.Candidates[0].Content.Parts[0].Text, true
}

// extractContentsText resolves contents[0].parts[0].text, the alternate shape.
func extractContentsText(raw []byte) (string, bool) {
	var envelope struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", false
	}
	if len(envelope.Contents) == 0 || len(envelope.Contents[0].Parts) == 0 {
		return "", false
	}
	return envelope.Contents[0].Parts[0].Text, true
}

// stripCodeFences removes a leading Markdown fence (with optional language
// tag) and a trailing fence, plus surrounding whitespace.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		if idx := strings.IndexByte(text, '\n'); idx >= 0 {
			text = text[idx+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
	}
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSuffix(text, "```")
	}

	return strings.TrimSpace(text)
}

func decodeInner(text string) (*ParsedAnalysis, error) {
	var payload struct {
		Analysis     json.RawMessage `json:"analysis"`
		Improvements json.RawMessage `json:"improvements"`
		Suggestions  json.RawMessage `json:"suggestions"`
		Safety       json.RawMessage `json:"safety"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		if json.Valid([]byte(text)) {
			// Valid JSON that is not an object: every field is absent.
			return &ParsedAnalysis{}, nil
		}
		return nil, fmt.Errorf("%w: inner payload: %v", ErrMalformedResponse, err)
	}

	parsed := &ParsedAnalysis{}

	if len(payload.Analysis) > 0 {
		var section struct {
			Overall        *string `json:"overall"`
			Pace           *string `json:"pace"`
			HeartRate      *string `json:"heartRate"`
			CaloriesBurned *string `json:"caloriesBurned"`
		}
		if err := json.Unmarshal(payload.Analysis, &section); err == nil {
			parsed.Overall = section.Overall
			parsed.Pace = section.Pace
			parsed.HeartRate = section.HeartRate
			parsed.CaloriesBurned = section.CaloriesBurned
		}
	}

	if len(payload.Improvements) > 0 {
		var improvements []Improvement
		if err := json.Unmarshal(payload.Improvements, &improvements); err == nil {
			parsed.Improvements = improvements
		}
	}

	if len(payload.Suggestions) > 0 {
		var suggestions []Suggestion
		if err := json.Unmarshal(payload.Suggestions, &suggestions); err == nil {
			parsed.Suggestions = suggestions
		}
	}

	if len(payload.Safety) > 0 {
		var safety []string
		if err := json.Unmarshal(payload.Safety, &safety); err == nil {
			parsed.Safety = safety
		}
	}

	return parsed, nil
}
