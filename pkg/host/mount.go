package host

import (
	"fmt"

	"github.com/vango-dev/tooltip/pkg/tooltip"
)

// Declaration binds a tooltip configuration to the ID of its trigger.
type Declaration struct {
	Trigger string
	Config  tooltip.Config
}

// Mount creates one tooltip per declaration, in order. On error the
// tooltips created so far are disposed.
func Mount(rt *tooltip.Runtime, decls []Declaration) ([]*tooltip.Tooltip, error) {
	tips := make([]*tooltip.Tooltip, 0, len(decls))
	for _, d := range decls {
		tip, err := rt.New(d.Trigger, d.Config)
		if err != nil {
			for _, t := range tips {
				t.Dispose()
			}
			return nil, fmt.Errorf("tooltip %q: %w", d.Trigger, err)
		}
		tips = append(tips, tip)
	}
	return tips, nil
}
