package viewer

import (
	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/nav"
	"github.com/zjrosen/glance/internal/surface"
)

// AdjustDisplayMode strips the frame chrome around target when the location
// carries nav=false. Any other value, or no flag, leaves the frame alone.
func AdjustDisplayMode(loc nav.Location, target *surface.Surface) error {
	v, ok := loc.Query(nav.FlagNav)
	if !ok || v != "false" {
		return nil
	}
	parent := target.Parent()
	if parent == nil {
		return ErrNoParent
	}
	parent.StripChrome()
	log.Debug(log.CatUI, "navigation chrome removed", "path", loc.Path())
	return nil
}
