package domain

import (
	"context"
	"time"
)

const ContextProfileKey = "runProfile"

// RunProfile tracks where a backtest run spends its time, phase by
// phase. Callers that don't care simply never attach one; every method
// is safe on a nil receiver.
type RunProfile struct {
	StartTime time.Time         `json:"-"`
	Phases    []RunProfilePhase `json:"phases"`
	TotalMs   int64             `json:"totalMs"`
}

type RunProfilePhase struct {
	Name      string    `json:"name"`
	ElapsedMs int64     `json:"elapsedMs"`
	Time      time.Time `json:"-"`
}

func NewRunProfile() *RunProfile {
	return &RunProfile{StartTime: time.Now()}
}

func RunProfileFromContext(ctx context.Context) *RunProfile {
	profile, _ := ctx.Value(ContextProfileKey).(*RunProfile)
	return profile
}

// Mark records the end of a phase, measured from the previous mark.
func (p *RunProfile) Mark(name string) {
	if p == nil {
		return
	}
	last := p.StartTime
	if len(p.Phases) > 0 {
		last = p.Phases[len(p.Phases)-1].Time
	}
	now := time.Now()
	p.Phases = append(p.Phases, RunProfilePhase{
		Name:      name,
		ElapsedMs: now.Sub(last).Milliseconds(),
		Time:      now,
	})
}

func (p *RunProfile) End() {
	if p == nil {
		return
	}
	p.TotalMs = time.Since(p.StartTime).Milliseconds()
}
