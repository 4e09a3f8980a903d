package cmd

import (
	"github.com/google/subcommands"
)

// Commands lists the subcommands, a main package registers them.
var Commands = []subcommands.Command{
	&ratesCmd{},
	&normalizeCmd{},
	&gainsCmd{},
	&positionsCmd{},
	&balanceCmd{},
	&costsCmd{},
	&debtsCmd{},
	&assetsCmd{},
	&reportCmd{},
	&searchCmd{},
}
