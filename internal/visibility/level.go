package visibility

import (
	"context"
	"strings"

	"github.com/goalkeep/goalkeep/internal/log"
)

// Level tags who inside a tenant may view an objective. Only two canonical
// levels exist; everything else is a deprecated alias kept for data written
// by older releases.
type Level string

const (
	// LevelTenantPublic is visible to every member of the owning tenant.
	LevelTenantPublic Level = "public_tenant"
	// LevelPrivate is visible to the owner, tenant admins, and the
	// explicit whitelist only.
	LevelPrivate Level = "private"
)

// deprecatedAliases all normalize to LevelTenantPublic. The set is closed;
// new aliases must not be added.
var deprecatedAliases = map[Level]struct{}{
	"workspace_only": {},
	"team_only":      {},
	"organization":   {},
	"everyone":       {},
}

// NormalizeLevel maps a stored level to its canonical form. Deprecated
// aliases normalize to tenant-public. Unrecognized values also normalize to
// tenant-public, with a warning, so a bad row degrades to the tenant-wide
// default instead of failing the read. Runs once at data-load boundaries;
// the evaluator only ever reasons about the two canonical levels.
func NormalizeLevel(ctx context.Context, raw Level) Level {
	level := Level(strings.ToLower(string(raw)))

	switch level {
	case LevelTenantPublic, LevelPrivate:
		return level
	}

	if _, ok := deprecatedAliases[level]; !ok {
		log.Warn(ctx, "visibility: unrecognized level, treating as tenant-public",
			log.String("level", string(raw)),
		)
	}

	return LevelTenantPublic
}
