package app

import (
	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/modules/choice"
	"github.com/vk/contentgraph/modules/errorbox"
	"github.com/vk/contentgraph/modules/exercise"
	"github.com/vk/contentgraph/modules/lesson"
	"github.com/vk/contentgraph/modules/passage"
	"github.com/vk/contentgraph/modules/repeat"
	"github.com/vk/contentgraph/modules/textinput"
)

// coreModules is the definitive list of tag modules compiled into the
// contentgraph binary.
var coreModules = []blueprint.Module{
	&lesson.Module{},
	&passage.Module{},
	&exercise.Module{},
	&textinput.Module{},
	&choice.Module{},
	&repeat.Module{},
	&errorbox.Module{},
}
