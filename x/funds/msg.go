package funds

import (
	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
)

const maxMemoSize = 128

// SendMsg transfers value between two accounts. This is also the way to
// deposit into a wallet account: send to the wallet address without any
// wallet involvement.
type SendMsg struct {
	Source      msig.Address
	Destination msig.Address
	Amount      int64
	// Memo is a free text comment, limited to 128 characters.
	Memo string
}

var _ msig.Msg = (*SendMsg)(nil)

func (m *SendMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// Path returns the routing path for this message.
func (SendMsg) Path() string {
	return "funds/send"
}

func (m *SendMsg) Validate() error {
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Source.Equals(m.Destination) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same")
	}
	if m.Amount <= 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}
