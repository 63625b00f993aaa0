// Package unload contains the pure business logic for the unload
// lifecycle. Guards are pure functions that evaluate preconditions
// without side effects.
package unload

import (
	"fmt"

	"github.com/example/cruisebot/internal/apperr"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Kind    error // sentinel from apperr, nil when allowed
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", r.Kind, r.Reason)
}

// StartContext provides context for unload-start guards.
type StartContext struct {
	CarrierID    string
	Found        bool
	UnloadRef    string // open tracking reference, empty when idle
	TotalUnloads int
	RunCount     int
}

// CompleteContext provides context for normal-completion guards.
type CompleteContext struct {
	CarrierID string
	Found     bool
	UnloadRef string
}

// ForceContext provides context for the forced-completion override.
type ForceContext struct {
	CarrierID string
	Found     bool
}

// CanStartUnload evaluates whether an unload cycle can start.
// Rules:
// - Carrier must exist
// - No unload already in progress
// - The run allotment must not be exhausted (total_unloads < run_count)
func CanStartUnload(ctx StartContext) GuardResult {
	if !ctx.Found {
		return GuardResult{
			Kind:   apperr.ErrNotFound,
			Reason: fmt.Sprintf("carrier %s is not in the ledger", ctx.CarrierID),
		}
	}

	if ctx.UnloadRef != "" {
		return GuardResult{
			Kind:   apperr.ErrAlreadyUnloading,
			Reason: fmt.Sprintf("carrier %s already has an open unload (%s)", ctx.CarrierID, ctx.UnloadRef),
		}
	}

	if ctx.TotalUnloads >= ctx.RunCount {
		return GuardResult{
			Kind:   apperr.ErrRunsExhausted,
			Reason: fmt.Sprintf("carrier %s has unloaded %d of %d runs", ctx.CarrierID, ctx.TotalUnloads, ctx.RunCount),
		}
	}

	return GuardResult{Allowed: true}
}

// CanCompleteUnload evaluates whether a normal completion can proceed.
// Rules:
// - Carrier must exist
// - An unload must be in progress
func CanCompleteUnload(ctx CompleteContext) GuardResult {
	if !ctx.Found {
		return GuardResult{
			Kind:   apperr.ErrNotFound,
			Reason: fmt.Sprintf("carrier %s is not in the ledger", ctx.CarrierID),
		}
	}

	if ctx.UnloadRef == "" {
		return GuardResult{
			Kind:   apperr.ErrNoActiveUnload,
			Reason: fmt.Sprintf("carrier %s has no unload in progress", ctx.CarrierID),
		}
	}

	return GuardResult{Allowed: true}
}

// CanForceComplete evaluates the administrative override. It bypasses the
// in-progress and allotment guards on purpose: forced completion is the
// escape hatch for desynchronized state.
// Rules:
// - Carrier must exist
func CanForceComplete(ctx ForceContext) GuardResult {
	if !ctx.Found {
		return GuardResult{
			Kind:   apperr.ErrNotFound,
			Reason: fmt.Sprintf("carrier %s is not in the ledger", ctx.CarrierID),
		}
	}

	return GuardResult{Allowed: true}
}
