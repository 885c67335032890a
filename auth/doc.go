// Package auth issues and verifies the JWT pair handed out at login, hashes
// passwords and manages the refresh-token cookie.
//
// An access token carries the account id and role and is sent as a bearer
// token. A refresh token carries only the account id, lives in an HTTP-only
// cookie and is rotated on every refresh. Both carry a typ claim so one can
// never be used in place of the other, and a jti so that every issued token
// is distinct and can be revoked on its own.
package auth
