// Package all registers all console commands.
package all

import (
	_ "github.com/robotalks/maestro.go/pkg/cli/cmds/pins"
	_ "github.com/robotalks/maestro.go/pkg/cli/cmds/script"
	_ "github.com/robotalks/maestro.go/pkg/cli/cmds/servo"
)
