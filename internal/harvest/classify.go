package harvest

import (
	"github.com/zakaut/zakaut/internal/lexicon"
	"github.com/zakaut/zakaut/internal/model"
)

// classifyStatus returns excluded when the chunk contains exclusion
// language, included otherwise.
func classifyStatus(chunk string) model.Status {
	if lexicon.HasExclusionKeyword(chunk) {
		return model.StatusExcluded
	}
	return model.StatusIncluded
}

// classifyLayer checks the keyword families in fixed priority order:
// service beats conditional beats certain. Certain is the default when a
// right-conferring keyword is present and nothing else matched; a chunk
// with no right keyword at all falls back to conditional.
func classifyLayer(chunk string) model.Layer {
	switch {
	case lexicon.HasServiceKeyword(chunk):
		return model.LayerService
	case lexicon.HasConditionalKeyword(chunk):
		return model.LayerConditional
	case lexicon.HasRightKeyword(chunk):
		return model.LayerCertain
	default:
		return model.LayerConditional
	}
}
