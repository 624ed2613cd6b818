// Package keys implements the public key cryptography used by provenance
// accounts.
//
// Every node of a provenance graph is represented on the ledger by an account
// which owns a cryptographic key-pair. The private key signs the create and
// transfer transactions issued on behalf of the node, and the public key is
// the ownership condition recorded by the ledger.
//
// Keys use elliptic curve cryptography (ECDSA) with the secp256k1 curve.
// Public keys travel as the uppercase hex encoding of the uncompressed point,
// prefixed with 0X, and private keys as the hex dump of their D value.
package keys
