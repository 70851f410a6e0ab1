package model

// Verdict is the evaluator's categorical output driving the research loop.
type Verdict string

const (
	VerdictPending    Verdict = "pending"
	VerdictSufficient Verdict = "sufficient"
	VerdictNeedMore   Verdict = "need_more"
	VerdictNeedWeb    Verdict = "need_web"
)
