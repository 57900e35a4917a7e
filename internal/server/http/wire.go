package http

import (
	"github.com/nimyab/word-aligner/internal/align"
	"github.com/nimyab/word-aligner/internal/server/ports"
)

// The JSON field names follow the original service contract: st/tt for
// the sentence pair, a for the alignment list, sw/tw/si/ti per record.

type alignRequest struct {
	SourceText string `json:"st"`
	TargetText string `json:"tt"`
	Method     string `json:"method,omitempty"`
}

type wireAlignment struct {
	SourceWord string `json:"sw"`
	TargetWord string `json:"tw"`
	SourceSpan [2]int `json:"si"`
	TargetSpan [2]int `json:"ti"`
}

type alignResponse struct {
	Alignments []wireAlignment `json:"a"`
	SourceText string          `json:"st"`
	TargetText string          `json:"tt"`
	Method     string          `json:"method"`
}

type methodsResponse struct {
	Methods []ports.MethodInfo `json:"methods"`
	Default string             `json:"default"`
}

type healthResponse struct {
	Status     string                  `json:"status"`
	Message    string                  `json:"message"`
	Components []ports.ComponentHealth `json:"components,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func toAlignResponse(sourceText, targetText string, result *align.Result) alignResponse {
	alignments := make([]wireAlignment, len(result.Records))
	for i, rec := range result.Records {
		alignments[i] = wireAlignment{
			SourceWord: rec.SourceWord,
			TargetWord: rec.TargetWord,
			SourceSpan: rec.SourceSpan,
			TargetSpan: rec.TargetSpan,
		}
	}
	return alignResponse{
		Alignments: alignments,
		SourceText: sourceText,
		TargetText: targetText,
		Method:     string(result.Method),
	}
}
