package usecase

import (
	"context"

	"predu/internal/domain/entity"
)

// RoutingUseCase wires Session -> RoleResolver -> Decide for one request.
type RoutingUseCase struct {
	resolver *RoleResolver
}

func NewRoutingUseCase(resolver *RoleResolver) *RoutingUseCase {
	return &RoutingUseCase{resolver: resolver}
}

// Evaluation is the outcome of one guard pass. Role is nil unless the
// session resolved to a signed-in, non-anonymous user.
type Evaluation struct {
	Decision Decision
	Role     RoleState
}

// Evaluate decides the route for a settled session. When the role cannot be
// resolved the decision stays loading and the error is returned alongside.
func (uc *RoutingUseCase) Evaluate(ctx context.Context, session Session, route string) (Evaluation, error) {
	if session.Loading || session.User == nil || session.User.Anonymous {
		return Evaluation{Decision: Decide(route, GuardStateFor(session, nil))}, nil
	}

	role, err := uc.resolver.Resolve(ctx, session.User)
	if err != nil {
		return Evaluation{Decision: Loading()}, err
	}
	return Evaluation{
		Decision: Decide(route, GuardStateFor(session, role)),
		Role:     role,
	}, nil
}

// EvaluateIdentity is Evaluate for a request-scoped identity (nil when the
// caller sent no valid token).
func (uc *RoutingUseCase) EvaluateIdentity(ctx context.Context, identity *entity.Identity, route string) (Evaluation, error) {
	return uc.Evaluate(ctx, Session{User: identity}, route)
}
