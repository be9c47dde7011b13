package store

import (
	msig "github.com/cloudwalk/brlc-multisig"
)

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = msig.ReadOnlyKVStore
type SetDeleter = msig.SetDeleter
type KVStore = msig.KVStore
type Batch = msig.Batch
type Iterator = msig.Iterator
type CacheableKVStore = msig.CacheableKVStore
type KVCacheWrap = msig.KVCacheWrap
type CommitKVStore = msig.CommitKVStore
type CommitID = msig.CommitID
type Model = msig.Model
