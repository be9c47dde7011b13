/*
Package funds keeps track of the native value held by each address and
allows moving it around with proper authorization.

Wallet accounts hold their deposits here and the executor pays out of
them when a stored transaction carries value.
*/
package funds
