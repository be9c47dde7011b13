/*
Package wallet implements a multi-party authorization wallet.

A wallet is controlled by a set of owners and a quorum. Any owner may
submit a transaction, a proposed transfer of funds and/or an arbitrary
message dispatch. Other owners approve or revoke their approval. Once the
approval count reaches the quorum, the submission cooldown has passed and
the expiration deadline has not, any owner may execute the transaction.

Execution flips the executed flag before dispatching the payload, so a
payload that calls back into the wallet observes the transaction as
already executed. A failed dispatch rolls the whole execution back and
the transaction stays executable, so it can be retried until it expires.

The wallet reconfigures itself only through its own pipeline: the
configuration messages are authorized by the wallet condition, which is
granted exclusively during payload execution. Changing the rules requires
satisfying the current rules.
*/
package wallet
