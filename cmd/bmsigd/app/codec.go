package app

import (
	amino "github.com/tendermint/go-amino"

	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
	"github.com/cloudwalk/brlc-multisig/x/funds"
	"github.com/cloudwalk/brlc-multisig/x/wallet"
)

// cdc knows every message that can travel inside a transaction or a
// wallet payload. Registration names must match the message paths so
// that clients can map the two without an extra table.
var cdc = amino.NewCodec()

func init() {
	cdc.RegisterInterface((*msig.Msg)(nil), nil)

	cdc.RegisterConcrete(&wallet.CreateWalletMsg{}, "wallet/create", nil)
	cdc.RegisterConcrete(&wallet.SubmitMsg{}, "wallet/submit", nil)
	cdc.RegisterConcrete(&wallet.SubmitApproveMsg{}, "wallet/submit_approve", nil)
	cdc.RegisterConcrete(&wallet.ApproveMsg{}, "wallet/approve", nil)
	cdc.RegisterConcrete(&wallet.ApproveBatchMsg{}, "wallet/approve_batch", nil)
	cdc.RegisterConcrete(&wallet.ApproveExecuteMsg{}, "wallet/approve_execute", nil)
	cdc.RegisterConcrete(&wallet.ApproveExecuteBatchMsg{}, "wallet/approve_execute_batch", nil)
	cdc.RegisterConcrete(&wallet.ExecuteMsg{}, "wallet/execute", nil)
	cdc.RegisterConcrete(&wallet.ExecuteBatchMsg{}, "wallet/execute_batch", nil)
	cdc.RegisterConcrete(&wallet.RevokeMsg{}, "wallet/revoke", nil)
	cdc.RegisterConcrete(&wallet.RevokeBatchMsg{}, "wallet/revoke_batch", nil)
	cdc.RegisterConcrete(&wallet.ConfigureOwnersMsg{}, "wallet/configure_owners", nil)
	cdc.RegisterConcrete(&wallet.ConfigureCooldownMsg{}, "wallet/configure_cooldown", nil)
	cdc.RegisterConcrete(&wallet.ConfigureExpirationMsg{}, "wallet/configure_expiration", nil)
	cdc.RegisterConcrete(&wallet.ApproveUpgradeMsg{}, "wallet/approve_upgrade", nil)

	cdc.RegisterConcrete(&funds.SendMsg{}, "funds/send", nil)
}

// EncodeMsg serializes a message so that it can be embedded as a wallet
// transaction payload or wrapped in a Tx.
func EncodeMsg(msg msig.Msg) ([]byte, error) {
	return cdc.MarshalBinaryBare(msg)
}

// DecodePayload deserializes a wallet transaction payload back into the
// message it carries. Used by the wallet execution pipeline.
func DecodePayload(raw []byte) (msig.Msg, error) {
	var msg msig.Msg
	if err := cdc.UnmarshalBinaryBare(raw, &msg); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return msg, nil
}
