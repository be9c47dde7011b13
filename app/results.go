package app

import (
	msig "github.com/cloudwalk/brlc-multisig"
	"github.com/cloudwalk/brlc-multisig/errors"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// ResultSet is the serialization format for ABCI query responses. Both
// keys and values travel as one ResultSet each, holding the same number
// of entries.
type ResultSet struct {
	Results [][]byte
}

func (rs *ResultSet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(rs)
}

func (rs *ResultSet) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, rs)
}

// ResultsFromKeys returns a ResultSet of all keys given a set of models.
func ResultsFromKeys(models []msig.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values given a set of
// models.
func ResultsFromValues(models []msig.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues and makes
// them a consistent whole again.
func JoinResults(keys, values *ResultSet) ([]msig.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrap(errors.ErrInput, "mismatched result set size")
	}
	mods := make([]msig.Model, len(kref))
	for i := range mods {
		mods[i] = msig.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}

// UnmarshalOneResult will parse a result set, and if it is not empty,
// unmarshal the first result into o.
func UnmarshalOneResult(bz []byte, o msig.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return errors.Wrap(err, "unmarshal result set")
	}
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
