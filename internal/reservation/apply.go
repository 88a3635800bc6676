package reservation

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/store"
	"github.com/jgyselov/dynamic-cim/internal/util/async"
)

// Outcome is the result of patching one agent.
type Outcome struct {
	Agent  string
	UID    string
	Action Action
	Err    error
}

// Report collects the outcome of every agent patch of a plan.
type Report struct {
	Outcomes []Outcome
	Missing  []string
}

// Failed returns the outcomes that carry an error.
func (r Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Apply issues the plan: all release patches first, then all reserve
// patches. Within a phase agents are patched concurrently, at most limit at
// a time. A failing agent never stops the others.
func Apply(ctx context.Context, s store.Store, plan Plan, limit int) Report {
	logger := log.FromContext(ctx).WithValues("cluster", plan.Cluster.String())

	report := Report{Missing: plan.Missing}
	if len(plan.Missing) > 0 {
		logger.Info("selected agents not found", "uids", plan.Missing)
	}

	for _, phase := range [][]HostPatch{plan.Release, plan.Reserve} {
		report.Outcomes = append(report.Outcomes, applyPhase(ctx, s, phase, limit, logger)...)
	}

	for _, o := range report.Failed() {
		logger.Info("agent patch failed", "agent", o.Agent, "action", o.Action, "error", o.Err.Error())
	}
	return report
}

func applyPhase(ctx context.Context, s store.Store, patches []HostPatch, limit int, logger logr.Logger) []Outcome {
	tasks := make([]async.Task, 0, len(patches))
	for _, hp := range patches {
		tasks = append(tasks, async.Task{
			Name: hp.Agent.Name,
			Func: func(ctx context.Context) error {
				return patchAgent(ctx, s, hp, logger)
			},
		})
	}

	results := async.RunAll(ctx, tasks, limit)

	outcomes := make([]Outcome, len(patches))
	for i, hp := range patches {
		outcomes[i] = Outcome{
			Agent:  hp.Agent.Name,
			UID:    string(hp.Agent.UID),
			Action: hp.Action,
			Err:    results[i].Err,
		}
	}
	return outcomes
}

func patchAgent(ctx context.Context, s store.Store, hp HostPatch, logger logr.Logger) error {
	if hp.Ops.Empty() {
		return nil
	}
	current, err := v1beta1.ToUnstructured(v1beta1.KindAgent, &hp.Agent)
	if err != nil {
		return err
	}
	logger.V(1).Info("patching agent", "agent", hp.Agent.Name, "action", hp.Action, "paths", hp.Ops.Paths())
	if _, err := s.Patch(ctx, v1beta1.KindAgent, current, hp.Ops); err != nil {
		return fmt.Errorf("failed to %s agent %s: %w", hp.Action, hp.Agent.Name, err)
	}
	return nil
}
