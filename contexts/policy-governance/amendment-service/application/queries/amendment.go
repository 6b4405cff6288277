package queries

import (
	"context"
	"strings"

	"concord/contexts/policy-governance/amendment-service/domain/entities"
	domainerrors "concord/contexts/policy-governance/amendment-service/domain/errors"
	"concord/contexts/policy-governance/amendment-service/domain/workflow"
	"concord/contexts/policy-governance/amendment-service/ports"
)

type AmendmentView struct {
	Amendment    entities.Amendment
	LegalTargets []entities.WorkflowStatus
}

type AmendmentUseCase struct {
	Amendments ports.AmendmentRepository
}

func (uc AmendmentUseCase) GetAmendment(ctx context.Context, amendmentID string) (AmendmentView, error) {
	id := strings.TrimSpace(amendmentID)
	if id == "" {
		return AmendmentView{}, domainerrors.ErrInvalidAmendmentInput
	}
	amendment, err := uc.Amendments.GetAmendment(ctx, id)
	if err != nil {
		return AmendmentView{}, err
	}
	return AmendmentView{
		Amendment:    amendment,
		LegalTargets: workflow.LegalTargets(amendment.WorkflowStatus),
	}, nil
}
