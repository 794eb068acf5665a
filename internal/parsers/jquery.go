package parsers

import (
	"munch/internal/selector"
)

func init() {
	Register(&Patterns{
		ID: "jquery",
		Recognizers: []selector.Recognizer{
			// $(el).attr("class", "menu open")
			selector.Keyed(`\.attr\(\s*["'](id|class)["']\s*,\s*["']([\w\s-]*)["']`),
			// $(el).prop("className", "menu")
			selector.Keyed(`\.prop\(\s*["'](id|className)["']\s*,\s*["']([\w\s-]*)["']`),
			// $(el).children(".item"), $(el).is("#nav")
			selector.Fragment(`\.(?:is|not|filter|children|parents|parent|siblings|nextAll|prevAll|next|prev|has|add)\(\s*(?:"([^"\n]*)"|'([^'\n]*)')`),
		},
	})
}
