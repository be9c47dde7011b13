package app

import (
	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/x/sigs"
)

// Tx is the transaction envelope: a single message and the signatures
// authorizing it.
type Tx struct {
	Msg        msig.Msg
	Signatures []*sigs.StdSignature
}

var _ msig.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (msig.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// GetMsg returns the message carried by this transaction.
func (tx *Tx) GetMsg() (msig.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "transaction without message")
	}
	return tx.Msg, nil
}

// GetSignBytes returns the bytes to sign. The sign bytes only come from
// the message itself, never from previous signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	s := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	tx.Signatures = s
	return bz, err
}

// GetSignatures returns the signatures authorizing this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}
