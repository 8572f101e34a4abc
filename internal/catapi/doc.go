// Package catapi provides a minimal client for TheCatAPI and the typed
// failure taxonomy the rest of fetchlab reports errors through.
//
// Every operation returns either decoded data or a *Failure whose Kind
// says where the request went wrong: the transport (network), the server
// (http), or the body (parsing). UserMessage renders the short
// non-technical string shown in the main view; the wrapped error keeps
// the raw cause for the details panel.
package catapi
