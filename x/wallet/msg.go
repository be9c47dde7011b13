package wallet

import (
	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
)

// maxBatchSize bounds the number of transaction IDs a single batch
// message may carry.
const maxBatchSize = 20

// CreateWalletMsg creates a new wallet with the given configuration. Any
// signer can create a wallet; the creator gains no special rights, only
// the listed owners do.
type CreateWalletMsg struct {
	Owners         []msig.Address
	Quorum         uint32
	CooldownTime   msig.UnixDuration
	ExpirationTime msig.UnixDuration
}

var _ msig.Msg = (*CreateWalletMsg)(nil)

func (m *CreateWalletMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateWalletMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (CreateWalletMsg) Path() string {
	return "wallet/create"
}

func (m *CreateWalletMsg) Validate() error {
	if err := validateOwners(errors.ErrMsg, m.Owners, m.Quorum); err != nil {
		return err
	}
	if err := m.CooldownTime.Validate(); err != nil {
		return errors.Wrap(err, "cooldown time")
	}
	if m.ExpirationTime < minExpirationTime {
		return errors.Wrapf(errors.ErrMsg,
			"expiration time %s below the %s minimum",
			m.ExpirationTime, minExpirationTime)
	}
	return nil
}

// SubmitMsg appends a new transaction to the wallet ledger. The sender
// must be an owner. Deadlines are computed from the block time and the
// wallet configuration at submission.
type SubmitMsg struct {
	WalletID    []byte
	Destination msig.Address
	Amount      int64
	// Payload is an opaque serialized message dispatched on execution.
	// Empty payload means a pure funds transfer.
	Payload []byte
}

var _ msig.Msg = (*SubmitMsg)(nil)

func (m *SubmitMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *SubmitMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (SubmitMsg) Path() string {
	return "wallet/submit"
}

func (m *SubmitMsg) Validate() error {
	if err := validateWalletID(m.WalletID); err != nil {
		return err
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	if len(m.Payload) > maxPayloadSize {
		return errors.Wrap(errors.ErrMsg, "payload too big")
	}
	return nil
}

// SubmitApproveMsg submits a new transaction and immediately records the
// approval of the sender.
type SubmitApproveMsg struct {
	WalletID    []byte
	Destination msig.Address
	Amount      int64
	Payload     []byte
}

var _ msig.Msg = (*SubmitApproveMsg)(nil)

func (m *SubmitApproveMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *SubmitApproveMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (SubmitApproveMsg) Path() string {
	return "wallet/submit_approve"
}

func (m *SubmitApproveMsg) Validate() error {
	asSubmit := SubmitMsg{
		WalletID:    m.WalletID,
		Destination: m.Destination,
		Amount:      m.Amount,
		Payload:     m.Payload,
	}
	return asSubmit.Validate()
}

// ApproveMsg records the approval of the sender for one transaction.
type ApproveMsg struct {
	WalletID      []byte
	TransactionID uint64
}

var _ msig.Msg = (*ApproveMsg)(nil)

func (m *ApproveMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ApproveMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (ApproveMsg) Path() string {
	return "wallet/approve"
}

func (m *ApproveMsg) Validate() error {
	return validateWalletID(m.WalletID)
}

// ApproveBatchMsg approves several transactions at once. The whole batch
// fails if any single approval fails.
type ApproveBatchMsg struct {
	WalletID       []byte
	TransactionIDs []uint64
}

var _ msig.Msg = (*ApproveBatchMsg)(nil)

func (m *ApproveBatchMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ApproveBatchMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (ApproveBatchMsg) Path() string {
	return "wallet/approve_batch"
}

func (m *ApproveBatchMsg) Validate() error {
	if err := validateWalletID(m.WalletID); err != nil {
		return err
	}
	return validateBatch(m.TransactionIDs)
}

// ApproveExecuteMsg records the approval of the sender and immediately
// attempts execution. The quorum check runs after the approval is
// counted.
type ApproveExecuteMsg struct {
	WalletID      []byte
	TransactionID uint64
}

var _ msig.Msg = (*ApproveExecuteMsg)(nil)

func (m *ApproveExecuteMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ApproveExecuteMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (ApproveExecuteMsg) Path() string {
	return "wallet/approve_execute"
}

func (m *ApproveExecuteMsg) Validate() error {
	return validateWalletID(m.WalletID)
}

// ApproveExecuteBatchMsg is the batch form of ApproveExecuteMsg with all
// or nothing semantics.
type ApproveExecuteBatchMsg struct {
	WalletID       []byte
	TransactionIDs []uint64
}

var _ msig.Msg = (*ApproveExecuteBatchMsg)(nil)

func (m *ApproveExecuteBatchMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ApproveExecuteBatchMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (ApproveExecuteBatchMsg) Path() string {
	return "wallet/approve_execute_batch"
}

func (m *ApproveExecuteBatchMsg) Validate() error {
	if err := validateWalletID(m.WalletID); err != nil {
		return err
	}
	return validateBatch(m.TransactionIDs)
}

// ExecuteMsg performs the transaction if the quorum is met and the
// execution window is open. A failed payload dispatch aborts the whole
// operation and the transaction stays executable.
type ExecuteMsg struct {
	WalletID      []byte
	TransactionID uint64
}

var _ msig.Msg = (*ExecuteMsg)(nil)

func (m *ExecuteMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ExecuteMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (ExecuteMsg) Path() string {
	return "wallet/execute"
}

func (m *ExecuteMsg) Validate() error {
	return validateWalletID(m.WalletID)
}

// ExecuteBatchMsg executes several transactions in the given order. The
// whole batch fails if any single execution fails.
type ExecuteBatchMsg struct {
	WalletID       []byte
	TransactionIDs []uint64
}

var _ msig.Msg = (*ExecuteBatchMsg)(nil)

func (m *ExecuteBatchMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ExecuteBatchMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (ExecuteBatchMsg) Path() string {
	return "wallet/execute_batch"
}

func (m *ExecuteBatchMsg) Validate() error {
	if err := validateWalletID(m.WalletID); err != nil {
		return err
	}
	return validateBatch(m.TransactionIDs)
}

// RevokeMsg withdraws a previously granted approval of the sender.
type RevokeMsg struct {
	WalletID      []byte
	TransactionID uint64
}

var _ msig.Msg = (*RevokeMsg)(nil)

func (m *RevokeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *RevokeMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (RevokeMsg) Path() string {
	return "wallet/revoke"
}

func (m *RevokeMsg) Validate() error {
	return validateWalletID(m.WalletID)
}

// RevokeBatchMsg is the batch form of RevokeMsg with all or nothing
// semantics.
type RevokeBatchMsg struct {
	WalletID       []byte
	TransactionIDs []uint64
}

var _ msig.Msg = (*RevokeBatchMsg)(nil)

func (m *RevokeBatchMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *RevokeBatchMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (RevokeBatchMsg) Path() string {
	return "wallet/revoke_batch"
}

func (m *RevokeBatchMsg) Validate() error {
	if err := validateWalletID(m.WalletID); err != nil {
		return err
	}
	return validateBatch(m.TransactionIDs)
}

// ConfigureOwnersMsg atomically replaces the owner set and quorum of a
// wallet. Authorized only by the wallet condition, so it must travel
// through the wallet pipeline as a transaction payload. Approvals of
// pending transactions are not touched; approvals cast by removed owners
// keep counting.
type ConfigureOwnersMsg struct {
	WalletID []byte
	Owners   []msig.Address
	Quorum   uint32
}

var _ msig.Msg = (*ConfigureOwnersMsg)(nil)

func (m *ConfigureOwnersMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ConfigureOwnersMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (ConfigureOwnersMsg) Path() string {
	return "wallet/configure_owners"
}

func (m *ConfigureOwnersMsg) Validate() error {
	if err := validateWalletID(m.WalletID); err != nil {
		return err
	}
	return validateOwners(errors.ErrMsg, m.Owners, m.Quorum)
}

// ConfigureCooldownMsg sets a new cooldown duration for transactions
// submitted from now on. Zero is valid and means a transaction becomes
// executable as soon as the quorum is met.
type ConfigureCooldownMsg struct {
	WalletID     []byte
	CooldownTime msig.UnixDuration
}

var _ msig.Msg = (*ConfigureCooldownMsg)(nil)

func (m *ConfigureCooldownMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ConfigureCooldownMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (ConfigureCooldownMsg) Path() string {
	return "wallet/configure_cooldown"
}

func (m *ConfigureCooldownMsg) Validate() error {
	if err := validateWalletID(m.WalletID); err != nil {
		return err
	}
	if err := m.CooldownTime.Validate(); err != nil {
		return errors.Wrap(err, "cooldown time")
	}
	return nil
}

// ConfigureExpirationMsg sets a new expiration duration for transactions
// submitted from now on. The duration cannot go below the minimum floor.
type ConfigureExpirationMsg struct {
	WalletID       []byte
	ExpirationTime msig.UnixDuration
}

var _ msig.Msg = (*ConfigureExpirationMsg)(nil)

func (m *ConfigureExpirationMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ConfigureExpirationMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (ConfigureExpirationMsg) Path() string {
	return "wallet/configure_expiration"
}

func (m *ConfigureExpirationMsg) Validate() error {
	if err := validateWalletID(m.WalletID); err != nil {
		return err
	}
	if m.ExpirationTime < minExpirationTime {
		return errors.Wrapf(errors.ErrMsg,
			"expiration time %s below the %s minimum",
			m.ExpirationTime, minExpirationTime)
	}
	return nil
}

// ApproveUpgradeMsg authorizes a code replacement for the wallet. The
// upgrade mechanism itself lives outside this module and must check the
// stored authorization. Like the other configuration messages this is
// reachable only through the wallet pipeline.
type ApproveUpgradeMsg struct {
	WalletID []byte
	// Implementation identifies the authorized replacement, for example
	// a checksum of the new code.
	Implementation []byte
}

var _ msig.Msg = (*ApproveUpgradeMsg)(nil)

func (m *ApproveUpgradeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ApproveUpgradeMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (ApproveUpgradeMsg) Path() string {
	return "wallet/approve_upgrade"
}

func (m *ApproveUpgradeMsg) Validate() error {
	if err := validateWalletID(m.WalletID); err != nil {
		return err
	}
	if len(m.Implementation) == 0 {
		return errors.Wrap(errors.ErrEmpty, "implementation")
	}
	return nil
}

func validateBatch(ids []uint64) error {
	switch n := len(ids); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "no transaction ids")
	case n > maxBatchSize:
		return errors.Wrapf(errors.ErrMsg, "more than %d transaction ids", maxBatchSize)
	}
	return nil
}
