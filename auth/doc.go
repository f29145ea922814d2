/*
Package auth defines how a trailhead host decides whether requests to authenticated routes may proceed.

An [Authenticator] inspects a request and returns a [Result]:
whether authentication succeeded and what authorization outcome applies.
[Classify] turns that into the [Verdict] an auth gate acts on.
Only a Result that succeeded authentication and is [Permitted] is let through;
a nil Result or an error is a fault, not a denial.

# JWT

[JWTAuthenticator] verifies HMAC-signed JSON web tokens
passed as a bearer token or in the "jwt" query param.
*/
package auth
