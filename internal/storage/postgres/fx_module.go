package postgres

import (
	"go.uber.org/fx"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/cycles"
	"github.com/goalkeep/goalkeep/internal/server/biz"
)

// Module wires the pgx-backed store behind the collaborator interfaces the
// services consume. The pool itself is provided by the caller so its
// lifecycle stays with the application.
var Module = fx.Module("postgres",
	fx.Provide(NewClient),
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
