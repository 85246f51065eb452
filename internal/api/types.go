package api

import (
	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/serum"
	"github.com/san-kum/physiosim/internal/stack"
	"github.com/san-kum/physiosim/internal/systemic"
)

type EvaluateRequest struct {
	Stack         pkpd.Stack         `json:"stack" binding:"required"`
	Profile       pkpd.UserProfile   `json:"profile"`
	Goal          string             `json:"goal"`
	Sensitivities pkpd.Sensitivities `json:"sensitivities"`
	EvidenceBlend *float64           `json:"evidence_blend"`
	// Protocol enables the scheduling and cycle penalties.
	Protocol *stack.Protocol `json:"protocol"`
}

func (r EvaluateRequest) blend() float64 {
	if r.EvidenceBlend == nil {
		return pkpd.DefaultEvidenceBlend
	}
	return *r.EvidenceBlend
}

type SnapshotRequest struct {
	Stack        pkpd.Stack            `json:"stack" binding:"required"`
	Profile      pkpd.UserProfile      `json:"profile"`
	BaselineLabs systemic.BaselineLabs `json:"baseline_labs"`
}

type SerumRequest struct {
	Stack  pkpd.Stack   `json:"stack" binding:"required"`
	Config serum.Config `json:"config"`
}

type FrontLoadRequest struct {
	Compound  string         `json:"compound" binding:"required"`
	WeeklyMg  float64        `json:"weekly_mg" binding:"required"`
	Frequency pkpd.Frequency `json:"frequency"`
	Ester     string         `json:"ester"`
}

type BatchRequest struct {
	Requests []EvaluateRequest `json:"requests" binding:"required"`
}

type CompoundInfo struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Class    pkpd.AdminClass `json:"class"`
	Esters   []string        `json:"esters,omitempty"`
	HardMax  float64         `json:"hard_max"`
	Plateau  float64         `json:"plateau"`
	IsTablet bool            `json:"is_tablet"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
