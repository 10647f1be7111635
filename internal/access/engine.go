package access

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/business-management/pkg/logger"
)

// Engine is the single authorization entry point used by the services. It evaluates the
// collection gate through the casbin policy and the object gate through ObjectGate, logging
// denials and counting every decision.
type Engine struct {
	policy *Policy
	logger *slog.Logger
}

func NewEngine(log *slog.Logger) (*Engine, error) {
	policy, err := NewPolicy()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.LoggerWrapper()
	}
	return &Engine{policy: policy, logger: log}, nil
}

// Authorize applies the collection gate for act on res.
func (e *Engine) Authorize(ctx context.Context, id *Identity, res Resource, act Action) error {
	err := e.policy.CollectionGate(id, res, act)
	recordDecision("collection", id, err == nil)
	if err != nil {
		e.logger.WarnContext(ctx, "access denied",
			"gate", "collection",
			"resource", res,
			"action", act,
			"reason", err.Error(),
		)
	}
	return err
}

// CanAccess applies the object gate for act on target.
func (e *Engine) CanAccess(ctx context.Context, id *Identity, act Action, target Target) bool {
	allowed := ObjectGate(id, act, target)
	recordDecision("object", id, allowed)
	if !allowed {
		e.logger.WarnContext(ctx, "access denied",
			"gate", "object",
			"target", target.Kind.String(),
			"target_id", target.ID,
			"action", act,
		)
	}
	return allowed
}
