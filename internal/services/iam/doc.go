// Package iam provides identity and access management services for the movies API.
//
// The IAM service centralizes:
//
//   - Credential checks (email + password) for sign-in
//   - Self-service sign-up with the default privilege set
//   - Bearer token resolution into an auth.Principal for the request filter
//   - Privilege administration (API and CLI)
//
// Request Flow:
//
//	Request → authn middleware → Service.ResolveToken → Principal
//	       ↓
//	   authz middleware → auth.Policy (first matching rule)
//	       ↓
//	   Handler
//
// Principals are rebuilt from the database on every request, so privilege
// changes take effect on the next request without reissuing tokens.
package iam
