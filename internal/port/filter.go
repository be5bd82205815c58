package port

import "recsys/internal/domain"

// CandidateFilter decides whether a scored candidate may appear in the result.
type CandidateFilter interface {
	Allow(rec domain.Recommendation) (bool, error)
}
