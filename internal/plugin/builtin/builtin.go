// Package builtin registers every plugin shipped with minipack.
package builtin

import (
	// Registered through init.
	_ "git.home.luguber.info/inful/minipack/internal/plugin/banner"
	_ "git.home.luguber.info/inful/minipack/internal/plugin/manifest"
	_ "git.home.luguber.info/inful/minipack/internal/plugin/metricsfile"
	_ "git.home.luguber.info/inful/minipack/internal/plugin/outputpath"
)
