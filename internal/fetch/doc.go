// Package fetch holds the network-invocation variants the demo pages plug
// into the lifecycle controller. Each variant performs a real HTTP GET
// against the image API in a different idiom (bare client call, hand-built
// request, interceptor-wrapped client, cached query, strict decode) behind
// the single Strategy contract.
package fetch
