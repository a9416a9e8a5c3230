// Package auth provides stateless JWT authentication over a relational
// user store.
//
// Tokens:
//   - TokenService signs HS512 tokens whose claims are subject, issued
//     at, and expiry. A token is self contained: proving it valid needs
//     the signing key and the clock, nothing server side.
//
// Identity resolution:
//   - UserProvider bridges token subjects and login credentials to the
//     persisted User records. Password verification burns a bcrypt
//     comparison even for unknown usernames so response timing does not
//     leak which usernames exist.
//
// Request gate:
//   - middleware/tokengate inspects the Authorization header on every
//     request and, when the bearer token checks out, publishes the
//     resolved identity into the request context. The gate never
//     rejects; pair it with tokengate.RequireAuthenticated on routes
//     that demand a caller identity.
//
// HTTP surface:
//   - AuthController exposes POST /authenticate, which exchanges
//     credentials for a token, and POST /register, which creates a new
//     user record with a bcrypt hashed password.
package auth
