package schedule

import (
	"context"

	"labsched/models"
	"labsched/services/extraction"
)

// Strategy names accepted by the extraction endpoint.
const (
	StrategyHeuristic = "heuristic"
	StrategyLLM       = "llm"
)

// SourceMeta carries per-file context into an extraction engine.
type SourceMeta struct {
	FileName    string
	DefaultYear int
}

// Engine turns extracted source lines into candidate sessions. The heuristic
// and LLM-delegated implementations are interchangeable; conflict checking
// and commit consume exactly the CandidateSession shape either produces.
type Engine interface {
	Extract(ctx context.Context, lines []extraction.SourceLine, meta SourceMeta) ([]models.CandidateSession, error)
}
