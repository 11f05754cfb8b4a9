package decoderdb

import (
	"time"

	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/uptrace/bun"
)

// Decoder is a registered player account. The password is stored as a bcrypt
// digest and the API key secret as a sha256 hex digest; a single active
// secret exists per decoder, so reissuing a key invalidates the previous one.
type Decoder struct {
	bun.BaseModel `bun:"table:decoders,alias:d"`

	Name         sharedtypes.DecoderName `bun:"name,pk"`
	HashedPass   string                  `bun:"hashed_pass,notnull"`
	HashedSecret string                  `bun:"hashed_secret,notnull"`
	CreatedAt    time.Time               `bun:"created_at,notnull,default:current_timestamp"`
}
