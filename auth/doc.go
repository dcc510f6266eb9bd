// Package auth implements stateless token authentication for the storefront.
//
// Logins are checked by CredentialVerifier against a CredentialStore, then
// TokenIssuer mints an HS512-signed JWT carrying the principal identifier and
// its roles. On later requests TokenValidator checks the signature and expiry
// without any server-side state, and the resulting SecurityContext travels
// in the request's context.Context.
package auth
