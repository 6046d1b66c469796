package app

import (
	"github.com/vk/attrgrid/internal/registry"
	"github.com/vk/attrgrid/modules/core"
	"github.com/vk/attrgrid/modules/numeric"
	"github.com/vk/attrgrid/modules/text"
	"github.com/vk/attrgrid/modules/validators"
)

// coreModules is the definitive list of all step libraries compiled into
// the attrgrid binary.
var coreModules = []registry.Module{
	&core.Module{},
	&text.Module{},
	&numeric.Module{},
	&validators.Module{},
}
