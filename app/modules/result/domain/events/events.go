package resultevents

import (
	"time"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
)

// TopicResultRecorded carries accepted personal-best updates.
const TopicResultRecorded = "result.recorded.v1"

// ResultRecordedPayload is published whenever a submission replaces (or
// creates) a stored best.
type ResultRecordedPayload struct {
	Decoder     sharedtypes.DecoderName `json:"decoder"`
	Chart       sharedtypes.ChartKey    `json:"chart"`
	Judge       sharedtypes.Judge       `json:"judge"`
	Score       sharedtypes.Score       `json:"score"`
	Patch       sharedtypes.Patch       `json:"patch"`
	IsFullCombo bool                    `json:"is_full_combo"`
	IsMaxPatch  bool                    `json:"is_max_patch"`
	DecodedAt   time.Time               `json:"decoded_at"`
	FirstClear  bool                    `json:"first_clear"`
}
