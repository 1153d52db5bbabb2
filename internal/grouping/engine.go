package grouping

import (
	"context"

	"github.com/abdulwasay100/leadcrm/internal/models"
	"go.uber.org/zap"
)

// Engine runs the Deriver followed by the Assigner.
type Engine struct {
	Deriver  *Deriver
	Assigner *Assigner
}

func NewEngine(leads LeadLister, groups GroupStore, logger *zap.Logger) *Engine {
	return &Engine{
		Deriver:  NewDeriver(leads, groups, logger),
		Assigner: NewAssigner(leads, groups, logger),
	}
}

// Sync derives missing groups and then reassigns membership of all groups.
func (e *Engine) Sync(ctx context.Context) ([]*models.Group, *Assignment, error) {
	created, err := e.Deriver.Derive(ctx)
	if err != nil {
		return created, nil, err
	}
	assignment, err := e.Assigner.Assign(ctx)
	if err != nil {
		return created, nil, err
	}
	return created, assignment, nil
}
