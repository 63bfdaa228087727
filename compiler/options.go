package compiler

import (
	"fmt"
	"log/slog"

	"github.com/reoring/immuskema/config"
	"github.com/reoring/immuskema/model"
	"github.com/reoring/immuskema/schema"
)

// Options wires the collaborators of a compilation run. Zero values are
// replaced with defaults.
type Options struct {
	// Config is the naming and numeric policy; nil means config.Default().
	Config *config.Config
	// Namespace overrides Config.Package.
	Namespace string
	// Catalog describes external types; nil means model.NewCatalog() plus
	// Config.ExternalTypes.
	Catalog *model.Catalog
	// Store provides documents for $ref lookups; nil means a filesystem store.
	Store *schema.Store
	// Logger receives debug traces; nil discards.
	Logger *slog.Logger
	// MaxNameAttempts bounds collision suffixing (0 means the naming default).
	MaxNameAttempts int
}

// Diag carries non-fatal warnings produced during compilation.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }

// catalogFor builds the catalog from the config's external types.
func catalogFor(cfg *config.Config) *model.Catalog {
	c := model.NewCatalog()
	for _, et := range cfg.ExternalTypes {
		kind := model.KindClass
		if et.Kind == config.KindInterface {
			kind = model.KindInterface
		}
		c.Register(et.Name, kind, et.Kind == config.KindFinal, et.AcceptsString)
	}
	return c
}
