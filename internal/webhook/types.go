package webhook

import "encoding/json"

// RepoData identifies the repository and branch submitted for analysis.
// Field names match the webhook contract exactly.
type RepoData struct {
	RepoOwner string `json:"repo_owner"`
	Branch    string `json:"branch"`
	RepoName  string `json:"repo_name"`
}

// AnalysisResponse is the provider envelope the workflow passes through.
// Only candidates[0].content.parts[0].text carries the analysis payload;
// the remaining fields are upstream metadata kept for diagnosis.
type AnalysisResponse struct {
	Candidates    []Candidate     `json:"candidates"`
	UsageMetadata json.RawMessage `json:"usageMetadata,omitempty"`
	ModelVersion  string          `json:"modelVersion,omitempty"`
	ResponseID    string          `json:"responseId,omitempty"`
}

// Candidate is one generation candidate inside the envelope.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
	Index        int     `json:"index,omitempty"`
}

// Content holds the ordered parts of a candidate.
type Content struct {
	Parts []Part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

// Part holds a single text blob.
type Part struct {
	Text string `json:"text"`
}
