// Package credentials persists sealed session credentials in SQLite.
//
// Values are stored as ciphertext plus nonce; sealing and opening happen in
// the credstore package. PutAll and DeleteAll run in one transaction so a
// token pair is never half written or half deleted.
package credentials
