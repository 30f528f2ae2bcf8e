package biz

import (
	"go.uber.org/fx"

	"github.com/goalkeep/goalkeep/internal/authz"
	"github.com/goalkeep/goalkeep/internal/cycles"
)

var Module = fx.Module("biz",
	fx.Provide(authz.NewResolver),
	fx.Provide(cycles.NewService),
	fx.Provide(NewAuthService),
	fx.Provide(NewObjectiveService),
	fx.Provide(NewKeyResultService),
	fx.Provide(NewRoleService),
)
