package orm

import (
	msig "github.com/cloudwalk/brlc-multisig"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator.
func ConsumeIterator(itr msig.Iterator) ([]msig.Model, error) {
	defer itr.Close()

	var res []msig.Model
	for itr.Valid() {
		mod := msig.Model{
			Key:   append([]byte(nil), itr.Key()...),
			Value: append([]byte(nil), itr.Value()...),
		}
		res = append(res, mod)
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}
