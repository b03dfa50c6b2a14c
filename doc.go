// Package zenith implements the authentication and session core of the
// Zenith academic-productivity backend.
//
// Credential flow:
//   - Users carry a normalized (trimmed, lowercased) unique email and a
//     bcrypt password digest. Registration strictly rejects duplicate
//     emails; normalization is repeated at lookup time so case-insensitive
//     uniqueness holds even on case-sensitive stores.
//   - Auther verifies credentials, mints HS256 session tokens, and
//     re-resolves token claims against the live user record so deactivated
//     accounts lose access on their next request.
//
// Session transport:
//   - Tokens travel in a single HttpOnly cookie. SessionCookie owns the
//     attribute set and reuses it verbatim when clearing, since a clear
//     with mismatched attributes silently fails in real browsers.
//
// Owner scoping:
//   - Every request that passes the authware gate carries the resolved
//     *User in its context. Downstream repositories conjoin that identity
//     with every query so one account can never observe another's records.
package zenith
