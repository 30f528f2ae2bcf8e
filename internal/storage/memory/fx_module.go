package memory

import (
	"go.uber.org/fx"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/cycles"
	"github.com/goalkeep/goalkeep/internal/server/biz"
)

// Module wires the in-process store behind the collaborator interfaces the
// services consume.
var Module = fx.Module("memory",
	fx.Provide(NewStore),
	fx.Provide(NewUserRepository),
	fx.Provide(NewRoleAssignmentRepository),
	fx.Provide(NewObjectiveRepository),
	fx.Provide(NewKeyResultRepository),
	fx.Provide(NewCycleRepository),
	fx.Provide(
		func(r *UserRepository) authz.UserStore { return r },
		func(r *UserRepository) biz.AuthUserStore { return r },
		func(r *RoleAssignmentRepository) authz.RoleAssignmentStore { return r },
		func(r *ObjectiveRepository) biz.ObjectiveStore { return r },
		func(r *ObjectiveRepository) cycles.ObjectiveCounter { return r },
		func(r *KeyResultRepository) biz.KeyResultStore { return r },
		func(r *CycleRepository) cycles.Store { return r },
	),
)
